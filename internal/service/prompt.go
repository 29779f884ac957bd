package service

import (
	"fmt"

	"process-report/internal/model"
)

const promptTemplate = `Based on the following information about an industrial process, act as a senior industrial automation consultant and generate a detailed technical report.
The report should provide actionable suggestions for optimization and improvement.

**Process Name:** %s
**Process Description:** %s
**Key Performance Indicators (KPIs):** %s
**Current Challenges / Bottlenecks:** %s
**Equipment Used:** %s
**Data Collection Methods:** %s

Please structure your response according to the provided JSON schema. The tone should be professional, technical, and analytical.`

// BuildPrompt renders the generation prompt for input. The output depends only
// on the six input fields.
func BuildPrompt(in model.ProcessInput) string {
	return fmt.Sprintf(promptTemplate,
		in.ProcessName, in.ProcessDescription, in.KPIs,
		in.Challenges, in.Equipment, in.DataCollection)
}

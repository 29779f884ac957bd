package service

import "google.golang.org/genai"

var requiredReportFields = []string{
	"executiveSummary", "processAnalysis", "bottlenecks",
	"optimizationSuggestions", "recommendedTechnologies", "conclusion",
}

// ReportSchema is the response schema every generation is constrained by.
func ReportSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"executiveSummary": str("A brief, high-level summary of the entire report."),
			"processAnalysis":  str("A detailed analysis of the provided industrial process description."),
			"bottlenecks":      str("Identification of key challenges, bottlenecks, and inefficiencies based on the input."),
			"optimizationSuggestions": {
				Type:        genai.TypeArray,
				Description: "A list of concrete, actionable optimization suggestions.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"suggestion":    str("The specific suggestion for improvement."),
						"justification": str("The reasoning and expected benefits behind the suggestion."),
					},
					Required: []string{"suggestion", "justification"},
				},
			},
			"recommendedTechnologies": {
				Type:        genai.TypeArray,
				Description: "A list of technologies or tools that could be implemented.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"conclusion": str("A concluding paragraph summarizing the key takeaways and next steps."),
		},
		Required: requiredReportFields,
	}
}

// ReportJSONSchema is ReportSchema in plain JSON-Schema form, for
// OpenAI-compatible response_format constraints.
func ReportJSONSchema() map[string]any {
	return jsonSchema(ReportSchema())
}

func jsonSchema(s *genai.Schema) map[string]any {
	out := map[string]any{}
	switch s.Type {
	case genai.TypeObject:
		out["type"] = "object"
		props := map[string]any{}
		for name, p := range s.Properties {
			props[name] = jsonSchema(p)
		}
		out["properties"] = props
		required := s.Required
		if required == nil {
			required = []string{}
		}
		out["required"] = required
		out["additionalProperties"] = false
	case genai.TypeArray:
		out["type"] = "array"
		if s.Items != nil {
			out["items"] = jsonSchema(s.Items)
		}
	case genai.TypeString:
		out["type"] = "string"
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	return out
}

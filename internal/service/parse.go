package service

import (
	"encoding/json"
	"errors"
	"strings"

	"process-report/internal/model"
)

// ParseReport decodes the raw backend text. Field contents are trusted as-is;
// only JSON well-formedness is checked, and missing lists become empty.
func ParseReport(raw string) (model.Report, error) {
	var r model.Report
	text := strings.TrimSpace(raw)
	if text == "" {
		return r, &MalformedResponseError{Raw: raw, Cause: errors.New("empty response")}
	}
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return model.Report{}, &MalformedResponseError{Raw: raw, Cause: err}
	}
	if r.OptimizationSuggestions == nil {
		r.OptimizationSuggestions = []model.OptimizationSuggestion{}
	}
	if r.RecommendedTechnologies == nil {
		r.RecommendedTechnologies = []string{}
	}
	return r, nil
}

// Package render presents a report as an ordered list of titled sections, as
// HTML for the browser and as Markdown for the terminal.
package render

import "process-report/internal/model"

const (
	TitleExecutiveSummary = "Executive Summary"
	TitleProcessAnalysis  = "Process Analysis"
	TitleBottlenecks      = "Identified Bottlenecks & Inefficiencies"
	TitleSuggestions      = "Optimization Suggestions"
	TitleTechnologies     = "Recommended Technologies"
	TitleConclusion       = "Conclusion"

	Subtitle = "Technical Optimization Report"
)

type Kind int

const (
	KindParagraph Kind = iota
	KindSuggestions
	KindTags
)

type Section struct {
	Title       string
	Kind        Kind
	Text        string
	Suggestions []model.OptimizationSuggestion
	Tags        []string
}

func (s Section) IsParagraph() bool   { return s.Kind == KindParagraph }
func (s Section) IsSuggestions() bool { return s.Kind == KindSuggestions }
func (s Section) IsTags() bool        { return s.Kind == KindTags }

// Sections lists the six report sections in display order. List contents keep
// the order the report gives them.
func Sections(r model.Report) []Section {
	return []Section{
		{Title: TitleExecutiveSummary, Kind: KindParagraph, Text: r.ExecutiveSummary},
		{Title: TitleProcessAnalysis, Kind: KindParagraph, Text: r.ProcessAnalysis},
		{Title: TitleBottlenecks, Kind: KindParagraph, Text: r.Bottlenecks},
		{Title: TitleSuggestions, Kind: KindSuggestions, Suggestions: r.OptimizationSuggestions},
		{Title: TitleTechnologies, Kind: KindTags, Tags: r.RecommendedTechnologies},
		{Title: TitleConclusion, Kind: KindParagraph, Text: r.Conclusion},
	}
}

package model

// ProcessInput is the form a user fills in to describe an industrial process.
type ProcessInput struct {
	ProcessName        string `json:"processName" form:"processName"`
	ProcessDescription string `json:"processDescription" form:"processDescription"`
	KPIs               string `json:"kpis" form:"kpis"`
	Challenges         string `json:"challenges" form:"challenges"`
	Equipment          string `json:"equipment" form:"equipment"`
	DataCollection     string `json:"dataCollection" form:"dataCollection"`
}

type OptimizationSuggestion struct {
	Suggestion    string `json:"suggestion"`
	Justification string `json:"justification"`
}

// Report is the structured analysis produced for one process.
type Report struct {
	ProcessName             string                   `json:"processName"`
	ExecutiveSummary        string                   `json:"executiveSummary"`
	ProcessAnalysis         string                   `json:"processAnalysis"`
	Bottlenecks             string                   `json:"bottlenecks"`
	OptimizationSuggestions []OptimizationSuggestion `json:"optimizationSuggestions"`
	RecommendedTechnologies []string                 `json:"recommendedTechnologies"`
	Conclusion              string                   `json:"conclusion"`
}

// HistoryEntry wraps a generated report with its id, title and display date.
type HistoryEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Report Report `json:"report"`
}

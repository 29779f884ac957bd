package model

type GenerateResponse struct {
	ID     string `json:"id"`
	Report Report `json:"report"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// State is the observable orchestrator state exposed to the UI.
type State struct {
	IsGenerating    bool    `json:"isGenerating"`
	CurrentReport   *Report `json:"currentReport,omitempty"`
	CurrentReportID string  `json:"currentReportId,omitempty"`
	Error           string  `json:"error,omitempty"`
}

type LoginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

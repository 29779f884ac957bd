package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"process-report/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportView is a report ready for the page template.
type ReportView struct {
	ProcessName string
	Subtitle    string
	Sections    []Section
	DownloadURL string
}

func NewReportView(r model.Report, downloadURL string) *ReportView {
	return &ReportView{
		ProcessName: r.ProcessName,
		Subtitle:    Subtitle,
		Sections:    Sections(r),
		DownloadURL: downloadURL,
	}
}

// PageData drives templates/index.html.
type PageData struct {
	Draft        model.ProcessInput
	Disabled     bool
	IsGenerating bool
	Error        string
	Report       *ReportView
	History      []model.HistoryEntry
	CurrentID    string
	AuthEnabled  bool
}

type LoginData struct {
	Error string
}

type HTML struct {
	page  *template.Template
	login *template.Template
}

func NewHTML() (*HTML, error) {
	page, err := template.ParseFS(templateFS, "templates/layout.html", "templates/report.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	login, err := template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	return &HTML{page: page, login: login}, nil
}

func (h *HTML) Page(w io.Writer, data PageData) error {
	return h.page.ExecuteTemplate(w, "layout", data)
}

// Report renders only the report block, without the surrounding page.
func (h *HTML) Report(w io.Writer, view *ReportView) error {
	return h.page.ExecuteTemplate(w, "report", view)
}

func (h *HTML) Login(w io.Writer, data LoginData) error {
	return h.login.ExecuteTemplate(w, "layout", data)
}

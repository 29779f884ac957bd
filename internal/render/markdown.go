package render

import (
	"fmt"
	"strings"

	"process-report/internal/model"

	"github.com/charmbracelet/glamour"
)

// Markdown renders r as a Markdown document.
func Markdown(r model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n", r.ProcessName, Subtitle)
	for _, s := range Sections(r) {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		switch s.Kind {
		case KindSuggestions:
			for _, item := range s.Suggestions {
				fmt.Fprintf(&b, "- **%s**\n  %s\n", item.Suggestion, item.Justification)
			}
		case KindTags:
			for i, tag := range s.Tags {
				if i > 0 {
					b.WriteString(" · ")
				}
				fmt.Fprintf(&b, "`%s`", tag)
			}
			b.WriteString("\n")
		default:
			b.WriteString(s.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Terminal renders r for a terminal. style is a glamour style name such as
// "dark", "light", "notty" or "auto".
func Terminal(r model.Report, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := tr.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

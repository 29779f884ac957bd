package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"process-report/internal/logger"
	"process-report/internal/model"
	"process-report/internal/render"
)

// UnavailableNotice is shown to the user when no PDF backend can be created.
const UnavailableNotice = "PDF generation library is not available. Please try again later."

// RendererUnavailableError means the drawing backend could not be created.
// No file is produced.
type RendererUnavailableError struct {
	Cause error
}

func (e *RendererUnavailableError) Error() string {
	if e.Cause == nil {
		return "pdf renderer unavailable"
	}
	return fmt.Sprintf("pdf renderer unavailable: %v", e.Cause)
}

func (e *RendererUnavailableError) Unwrap() error { return e.Cause }

// SurfaceFactory creates a fresh one-page Surface for every document.
type SurfaceFactory func() (Surface, error)

type Exporter struct {
	newSurface SurfaceFactory
}

func NewExporter(f SurfaceFactory) *Exporter {
	return &Exporter{newSurface: f}
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName derives the download name from a process name.
func FileName(processName string) string {
	return "report_" + strings.ToLower(unsafeName.ReplaceAllString(processName, "_")) + ".pdf"
}

// Render lays r out and writes the finished document to w. Nothing reaches w
// unless the whole document was produced.
func (e *Exporter) Render(r model.Report, w io.Writer) error {
	if e == nil || e.newSurface == nil {
		return &RendererUnavailableError{}
	}
	s, err := e.newSurface()
	if err != nil {
		logger.Error("pdf.surface.failed", "err", err)
		return &RendererUnavailableError{Cause: err}
	}
	if s == nil {
		return &RendererUnavailableError{}
	}

	Layout(NewCanvas(s), r)

	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logger.Info("pdf.rendered", "process", r.ProcessName, "pages", s.PageCount(), "bytes", buf.Len())
	return nil
}

// ExportToFile renders r into dir under FileName and returns the path. The
// file appears only once it is complete.
func (e *Exporter) ExportToFile(r model.Report, dir string) (string, error) {
	var buf bytes.Buffer
	if err := e.Render(r, &buf); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(r.ProcessName))
	tmp, err := os.CreateTemp(dir, ".report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_, werr := tmp.Write(buf.Bytes())
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// Layout draws the whole report: title block, the six sections in display
// order, then page footers.
func Layout(c *Canvas, r model.Report) {
	c.EmitBlock(r.ProcessName, Style{Bold: true, Size: 22, Color: Black})
	c.Gap(2)
	c.EmitBlock(render.Subtitle, Style{Size: 14, Color: Gray(100)})
	c.Gap(8)

	for _, sec := range render.Sections(r) {
		c.EmitSection(sec.Title, func() {
			switch sec.Kind {
			case render.KindSuggestions:
				for _, item := range sec.Suggestions {
					c.EmitBlock("• "+item.Suggestion, Style{Bold: true, Size: Body.Size, Color: Body.Color, Indent: 5})
					c.EmitBlock(item.Justification, Style{Size: Body.Size, Color: Gray(100), Indent: 10})
					c.Gap(4)
				}
			case render.KindTags:
				c.EmitBlock(strings.Join(sec.Tags, ", "), Body)
			default:
				c.EmitBlock(sec.Text, Body)
			}
		})
	}

	c.StampFooters()
}

package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// lineHeightFactor matches the spacing of wrapped body text to 1.15 em.
const lineHeightFactor = 1.15

// FpdfSurface draws on an A4 portrait document in millimetres using the core
// Helvetica font.
type FpdfSurface struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

// NewFpdfSurface is a SurfaceFactory.
func NewFpdfSurface() (Surface, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(Margin, Margin, Margin)
	doc.SetCreator("process-report", true)
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("init fpdf: %w", err)
	}
	return &FpdfSurface{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}, nil
}

func (f *FpdfSurface) PageSize() (float64, float64) { return f.doc.GetPageSize() }

func (f *FpdfSurface) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	f.doc.SetFont("Helvetica", style, size)
}

func (f *FpdfSurface) SetTextColor(c Color) { f.doc.SetTextColor(c.R, c.G, c.B) }

func (f *FpdfSurface) SetDrawColor(c Color) { f.doc.SetDrawColor(c.R, c.G, c.B) }

func (f *FpdfSurface) lineHeight() float64 {
	_, unit := f.doc.GetFontSize()
	return unit * lineHeightFactor
}

func (f *FpdfSurface) Measure(text string, width float64) ([]string, float64) {
	// SplitLines works on single-byte encoded text, so translate first.
	split := f.doc.SplitLines([]byte(f.tr(text)), width)
	lines := make([]string, 0, len(split))
	for _, l := range split {
		lines = append(lines, string(l))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines, float64(len(lines)) * f.lineHeight()
}

// DrawLines expects lines returned by Measure, which are already translated.
func (f *FpdfSurface) DrawLines(lines []string, x, y float64) {
	lh := f.lineHeight()
	for i, line := range lines {
		f.doc.Text(x, y+float64(i)*lh, line)
	}
}

func (f *FpdfSurface) DrawLine(x1, y1, x2, y2 float64) {
	f.doc.SetLineWidth(0.2)
	f.doc.Line(x1, y1, x2, y2)
}

func (f *FpdfSurface) TextWidth(text string) float64 { return f.doc.GetStringWidth(f.tr(text)) }

func (f *FpdfSurface) DrawText(text string, x, y float64) { f.doc.Text(x, y, f.tr(text)) }

func (f *FpdfSurface) AddPage() { f.doc.AddPage() }

func (f *FpdfSurface) PageCount() int { return f.doc.PageCount() }

// SetPage switches pages and re-emits the current font into that page's
// content stream. fpdf tracks the font per document, so a page written
// earlier keeps whatever it last used.
func (f *FpdfSurface) SetPage(n int) {
	f.doc.SetPage(n)
	pt, _ := f.doc.GetFontSize()
	f.doc.SetFontSize(pt + 1)
	f.doc.SetFontSize(pt)
}

func (f *FpdfSurface) Output(w io.Writer) error {
	if err := f.doc.Output(w); err != nil {
		return fmt.Errorf("fpdf output: %w", err)
	}
	return nil
}

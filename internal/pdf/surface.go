// Package pdf lays a report out on paginated pages and writes it as a PDF
// document.
package pdf

import "io"

type Color struct{ R, G, B int }

func Gray(v int) Color { return Color{v, v, v} }

var (
	Black      = Color{0, 0, 0}
	BodyColor  = Color{51, 65, 85}
	AccentBlue = Color{40, 109, 173}
	RuleColor  = Color{226, 232, 240}
	FooterGray = Gray(150)
)

// Surface is the drawing backend a Canvas writes to. Coordinates are in the
// backend's user unit with the origin at the top-left corner of the page; y
// passed to DrawLines and DrawText is the text baseline of the first line.
type Surface interface {
	PageSize() (width, height float64)
	SetFont(bold bool, size float64)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	// Measure wraps text to width using the current font and returns the
	// lines and the height they occupy.
	Measure(text string, width float64) ([]string, float64)
	DrawLines(lines []string, x, y float64)
	DrawLine(x1, y1, x2, y2 float64)
	TextWidth(text string) float64
	DrawText(text string, x, y float64)
	AddPage()
	PageCount() int
	SetPage(n int)
	Output(w io.Writer) error
}

// Style controls one text block.
type Style struct {
	Bold   bool
	Size   float64
	Color  Color
	Indent float64
}

// Body is the default style for paragraph text.
var Body = Style{Size: 11, Color: BodyColor}

package pdf

import "fmt"

const (
	Margin          = 15.0
	sectionHeadroom = 20.0
	blockSpacing    = 2.0
	footerOffset    = 10.0
)

// Canvas tracks the vertical cursor on a Surface and breaks pages before a
// block would run past the bottom margin.
type Canvas struct {
	s             Surface
	width, height float64
	y             float64
}

func NewCanvas(s Surface) *Canvas {
	w, h := s.PageSize()
	return &Canvas{s: s, width: w, height: h, y: Margin}
}

func (c *Canvas) Y() float64 { return c.y }

func (c *Canvas) ContentWidth() float64 { return c.width - 2*Margin }

// Gap advances the cursor by d without drawing.
func (c *Canvas) Gap(d float64) { c.y += d }

func (c *Canvas) ensure(needed float64) {
	if c.y+needed > c.height-Margin {
		c.s.AddPage()
		c.y = Margin
	}
}

// EmitBlock wraps text to the content width less the indent and draws it at
// the cursor, starting a new page first if it would not fit.
func (c *Canvas) EmitBlock(text string, st Style) {
	c.s.SetFont(st.Bold, st.Size)
	c.s.SetTextColor(st.Color)
	lines, h := c.s.Measure(text, c.ContentWidth()-st.Indent)
	c.ensure(h)
	c.s.DrawLines(lines, Margin+st.Indent, c.y)
	c.y += h + blockSpacing
}

// EmitSection draws a section heading with a rule under it, then body.
func (c *Canvas) EmitSection(title string, body func()) {
	c.ensure(sectionHeadroom)
	c.y += 8
	c.EmitBlock(title, Style{Bold: true, Size: 16, Color: AccentBlue})
	c.s.SetDrawColor(RuleColor)
	c.s.DrawLine(Margin, c.y-2, c.width-Margin, c.y-2)
	c.y += 4
	body()
}

// StampFooters writes "Page i of N" on every page. Call it once, after all
// content is laid out.
func (c *Canvas) StampFooters() {
	n := c.s.PageCount()
	for i := 1; i <= n; i++ {
		c.s.SetPage(i)
		c.s.SetFont(false, 8)
		c.s.SetTextColor(FooterGray)
		label := fmt.Sprintf("Page %d of %d", i, n)
		c.s.DrawText(label, (c.width-c.s.TextWidth(label))/2, c.height-footerOffset)
	}
}

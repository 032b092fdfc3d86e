// Package overlay draws a box, such as the sort menu or the loading spinner,
// centered on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	charmansi "github.com/charmbracelet/x/ansi"

	"github.com/wplibs/nodata/pkg/ui/theme"
)

const defaultMinWidth = 16

type Overlay struct {
	theme    *theme.Theme
	width    int
	height   int
	minWidth int
}

type Opt func(*Overlay)

// WithMinWidth sets the minimum width of the box in cells.
func WithMinWidth(w int) Opt {
	return func(o *Overlay) {
		o.minWidth = w
	}
}

func New(t *theme.Theme, opts ...Opt) *Overlay {
	o := &Overlay{
		theme:    t,
		minWidth: defaultMinWidth,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SetSize sets the size of the view the box is placed on.
func (o *Overlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Place renders fg with style at widthFraction of the view width and draws it
// centered over bg. Content taller than the view is cut with a hint line.
func (o *Overlay) Place(bg, fg string, widthFraction float64, style lipgloss.Style) string {
	boxWidth := clamp(int(float64(o.width)*widthFraction), o.minWidth, max(o.width, o.minWidth))
	innerWidth := max(1, boxWidth-style.GetHorizontalFrameSize())

	lines := strings.Split(cellbuf.Wrap(fg, innerWidth, " /-"), "\n")

	maxLines := o.height - 4 - style.GetVerticalFrameSize()
	switch {
	case maxLines < 1:
		lines = nil
	case len(lines) > maxLines:
		hint := truncate.StringWithTail("(truncated)", uint(innerWidth), o.theme.Ellipsis) //nolint:gosec // Uses max.
		lines = append(lines[:maxLines-1], o.theme.SubtleStyle.Render(hint))
	}

	box := style.Width(boxWidth - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))

	return compose(bg, box)
}

// compose writes the lines of fg over the center of bg.
func compose(bg, fg string) string {
	fgLines, fgWidth := measure(fg)
	bgLines, bgWidth := measure(bg)

	x := max(0, bgWidth-fgWidth) / 2
	y := max(0, len(bgLines)-len(fgLines)) / 2

	out := make([]string, len(bgLines))
	for i, bgLine := range bgLines {
		if i < y || i >= y+len(fgLines) {
			out[i] = bgLine

			continue
		}

		out[i] = spliceLine(bgLine, fgLines[i-y], x)
	}

	return strings.Join(out, "\n")
}

// spliceLine replaces the cells of bgLine starting at column x with fgLine,
// keeping whatever of bgLine lies to the right of it.
func spliceLine(bgLine, fgLine string, x int) string {
	var sb strings.Builder

	left := truncate.String(bgLine, uint(x)) //nolint:gosec // x is never negative.
	sb.WriteString(left)

	if w := ansi.PrintableRuneWidth(left); w < x {
		sb.WriteString(strings.Repeat(" ", x-w))
	}

	sb.WriteString(fgLine)

	end := x + ansi.PrintableRuneWidth(fgLine)
	sb.WriteString(charmansi.TruncateLeft(bgLine, end, ""))

	return sb.String()
}

// measure splits s into lines and returns the width of the widest one.
func measure(s string) ([]string, int) {
	lines := strings.Split(s, "\n")

	widest := 0
	for _, l := range lines {
		widest = max(widest, charmansi.StringWidth(l))
	}

	return lines, widest
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

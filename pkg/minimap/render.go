package minimap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultColor is used for regions without a color of their own.
const DefaultColor = "#7aa2f7"

const (
	cellOn   = "━"
	cellOff  = " "
	cellOpen = "╍"
)

// Cells maps an entry's segments onto a row of width terminal cells, with
// one cell per pixel of scale. An open segment continues to the last cell in
// a lighter glyph.
func Cells(e Entry, width int) []rune {
	on, open := []rune(cellOn)[0], []rune(cellOpen)[0]
	row := []rune(strings.Repeat(cellOff, max(width, 0)))
	fill := func(from, to int, glyph rune) {
		for c := max(from, 0); c < min(to, width); c++ {
			row[c] = glyph
		}
	}
	for _, seg := range e.Lifespans {
		from := int(seg.Start)
		to := max(int(seg.Start+seg.Width), from+1)
		fill(from, to, on)
		if seg.Open {
			fill(to, width, open)
		}
	}
	return row
}

// RenderStrip paints entries as colored rows of width cells. The selected
// row is marked in the gutter.
func RenderStrip(entries []Entry, width int) string {
	var sb strings.Builder
	for i, e := range entries {
		color := e.Color
		if color == "" {
			color = DefaultColor
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		gutter := "  "
		if e.Selected {
			gutter = "▶ "
			style = style.Bold(true)
		}
		sb.WriteString(gutter)
		sb.WriteString(style.Render(string(Cells(e, width))))
		if i < len(entries)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth so wide characters such as Japanese person labels keep
// rows aligned.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads s with spaces on the right to the given visual width.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// fit truncates and pads s to exactly width cells.
func fit(s string, width int) string {
	return padRight(truncate(s, width), width)
}

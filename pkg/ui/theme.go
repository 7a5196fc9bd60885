package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// RegionFg is the foreground for a region's own color. Regions without a
// color use the primary accent.
func RegionFg(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return ColorPrimary
	}
	return ThemeFg(hex)
}

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorSubtext   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Selected  lipgloss.Style // Row of the selected region
	Marked    lipgloss.Style // Row of a region in the bulk selection
	Header    lipgloss.Style
	MutedText lipgloss.Style
	Person    lipgloss.Style // Person labels
	Action    lipgloss.Style // Action labels
	Unlabeled lipgloss.Style
	Info      lipgloss.Style
	Error     lipgloss.Style
	Progress  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Highlight: ColorHighlight,
		Border:    ColorBorder,
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		Bold(true)

	t.Marked = r.NewStyle().Foreground(t.Primary)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Person = r.NewStyle().Foreground(ThemeFg("#FF79C6"))
	t.Action = r.NewStyle().Foreground(ThemeFg("#8BE9FD"))
	t.Unlabeled = r.NewStyle().Foreground(ColorWarning).Italic(true)
	t.Info = r.NewStyle().Foreground(ColorSuccess)
	t.Error = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.Progress = r.NewStyle().Foreground(t.Primary).Bold(true)

	return t
}

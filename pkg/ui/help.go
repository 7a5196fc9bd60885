package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

var helpSections = []string{"Navigation", "Tracks", "Selection", "Other"}

// helpMarkdown renders the key map as a markdown document.
func helpMarkdown(k keyMap) string {
	var sb strings.Builder
	sb.WriteString("# rw keys\n\n")
	for i, group := range k.FullHelp() {
		fmt.Fprintf(&sb, "## %s\n\n", helpSections[i])
		sb.WriteString("| Key | Action |\n|---|---|\n")
		for _, b := range group {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", b.Help().Key, b.Help().Desc)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Bulk selections run one region per frame; `esc` stops them and " +
		"reselects the region that was selected before.\n")
	return sb.String()
}

// renderHelp renders the help document for the given width. Falls back to
// the raw markdown when glamour cannot build a renderer.
func renderHelp(k keyMap, width int) string {
	md := helpMarkdown(k)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}

// newHelpViewport returns a viewport holding the rendered help.
func newHelpViewport(width, height int) viewport.Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.SetContent(renderHelp(keys, width))
	return vp
}

// shortHelp renders the footer line.
func shortHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " • ")
}

package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next            key.Binding
	Previous        key.Binding
	Down            key.Binding
	Up              key.Binding
	NextInTrack     key.Binding
	PreviousInTrack key.Binding
	TrackOnward     key.Binding
	Track           key.Binding
	NextUnlabeled   key.Binding
	PrevUnlabeled   key.Binding
	SelectAll       key.Binding
	Cancel          key.Binding
	Copy            key.Binding
	ToggleKeyframe  key.Binding
	Grow            key.Binding
	Shrink          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.NextInTrack, k.Track, k.NextUnlabeled, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Down, k.Up},
		{k.NextInTrack, k.PreviousInTrack, k.TrackOnward, k.Track},
		{k.NextUnlabeled, k.PrevUnlabeled, k.SelectAll, k.Cancel},
		{k.Copy, k.ToggleKeyframe, k.Grow, k.Shrink, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("ctrl+alt+.", "alt+."),
		key.WithHelp("ctrl+alt+.", "next region (wraps)"),
	),
	Previous: key.NewBinding(
		key.WithKeys("ctrl+alt+>", "alt+>"),
		key.WithHelp("ctrl+alt+>", "previous region (wraps)"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "next region"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "previous region"),
	),
	NextInTrack: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next in track"),
	),
	PreviousInTrack: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous in track"),
	),
	TrackOnward: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "select track from here"),
	),
	Track: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "select whole track"),
	),
	NextUnlabeled: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "next unlabeled"),
	),
	PrevUnlabeled: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "previous unlabeled"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel selection / close help"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy region id"),
	),
	ToggleKeyframe: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle last keyframe"),
	),
	Grow: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more minimap rows"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer minimap rows"),
	),
	Help: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

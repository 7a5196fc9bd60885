// Package model defines the region types shared by the navigator, the minimap
// and the task store.
package model

import (
	"fmt"
	"strings"
)

// PersonLabelSuffix marks a label that names a person rather than an action.
const PersonLabelSuffix = "さん"

// Keyframe is one point of a region's timeline sequence.
type Keyframe struct {
	Frame   int  `json:"frame"`
	Enabled bool `json:"enabled"`
}

// SelectEvent is the synthetic pointer event handed to a region's selection
// trigger. It mirrors the modifier keys of a click.
type SelectEvent struct {
	ShiftKey bool
	CtrlKey  bool
	MetaKey  bool
}

// EventOption overrides a field of the default SelectEvent.
type EventOption func(*SelectEvent)

// WithCtrl sets the ctrl modifier (add to selection).
func WithCtrl() EventOption {
	return func(e *SelectEvent) { e.CtrlKey = true }
}

// WithShift sets the shift modifier.
func WithShift() EventOption {
	return func(e *SelectEvent) { e.ShiftKey = true }
}

// WithMeta sets the meta modifier.
func WithMeta() EventOption {
	return func(e *SelectEvent) { e.MetaKey = true }
}

// NewSelectEvent returns an event with all modifiers released, then applies opts.
func NewSelectEvent(opts ...EventOption) SelectEvent {
	var ev SelectEvent
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

// Region is a labeled time interval owned by the annotation engine.
//
// Trigger is the region's own selection callback. A region without one cannot
// be selected by the navigator.
type Region struct {
	ID          string     `json:"id"`
	Sequence    []Keyframe `json:"sequence"`
	Color       string     `json:"color,omitempty"`
	Selected    bool       `json:"selected,omitempty"`
	InSelection bool       `json:"in_selection,omitempty"`
	Labels      []string   `json:"labels"`

	Trigger func(SelectEvent) `json:"-"`
}

// IsSelected reports whether the region is the selected region.
func (r *Region) IsSelected() bool {
	return r != nil && (r.Selected || r.InSelection)
}

// CanSelect reports whether the region exposes a selection trigger.
func (r *Region) CanSelect() bool {
	return r != nil && r.Trigger != nil
}

// StartFrame returns the frame of the first keyframe.
func (r *Region) StartFrame() (int, bool) {
	if r == nil || len(r.Sequence) == 0 {
		return 0, false
	}
	return r.Sequence[0].Frame, true
}

// BaseID returns the id with any "#suffix" removed.
func (r *Region) BaseID() string {
	if r == nil {
		return ""
	}
	base, _, _ := strings.Cut(r.ID, "#")
	return base
}

// LabelCount returns the number of labels, or -1 for a nil region.
func (r *Region) LabelCount() int {
	if r == nil {
		return -1
	}
	return len(r.Labels)
}

// PersonLabelCount counts labels carrying the person suffix.
func (r *Region) PersonLabelCount() int {
	if r == nil {
		return -1
	}
	n := 0
	for _, l := range r.Labels {
		if strings.HasSuffix(l, PersonLabelSuffix) {
			n++
		}
	}
	return n
}

// ActionLabelCount counts labels without the person suffix.
func (r *Region) ActionLabelCount() int {
	if r == nil {
		return -1
	}
	return len(r.Labels) - r.PersonLabelCount()
}

// IsUnlabeled reports whether the region has no labels at all.
func (r *Region) IsUnlabeled() bool {
	return r.LabelCount() == 0
}

// Validate checks the fields the navigator relies on.
func (r *Region) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("region id is required")
	}
	for i := 1; i < len(r.Sequence); i++ {
		if r.Sequence[i].Frame < r.Sequence[i-1].Frame {
			return fmt.Errorf("region %s: keyframe %d (frame %d) precedes frame %d",
				r.ID, i, r.Sequence[i].Frame, r.Sequence[i-1].Frame)
		}
	}
	return nil
}

// Clone returns a copy of the region without its trigger.
func (r *Region) Clone() *Region {
	if r == nil {
		return nil
	}
	c := *r
	c.Sequence = append([]Keyframe(nil), r.Sequence...)
	c.Labels = append([]string(nil), r.Labels...)
	c.Trigger = nil
	return &c
}

// IndexOf returns the position of the region with the given id, or -1.
func IndexOf(regions []*Region, id string) int {
	for i, r := range regions {
		if r != nil && r.ID == id {
			return i
		}
	}
	return -1
}

// FindSelected returns the first selected region, or nil.
func FindSelected(regions []*Region) *Region {
	for _, r := range regions {
		if r.IsSelected() {
			return r
		}
	}
	return nil
}

// Reversed returns a reversed copy of regions.
func Reversed(regions []*Region) []*Region {
	out := make([]*Region, len(regions))
	for i, r := range regions {
		out[len(regions)-1-i] = r
	}
	return out
}

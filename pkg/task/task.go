// Package task holds the regions of one annotation task together with the
// playhead and highlighted row. It plays the annotation engine for the
// navigator: each region's trigger updates selection here.
package task

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// ErrUnknownRegion is returned when a change names a region the task does
// not hold.
var ErrUnknownRegion = errors.New("unknown region")

// Task owns a list of regions. It is safe for concurrent use; region fields
// are only written while the task lock is held.
type Task struct {
	mu       sync.RWMutex
	name     string
	regions  []*model.Region
	position int
	row      int
}

// New returns a task over copies of regions. Selection flags are kept.
func New(name string, regions []*model.Region) *Task {
	t := &Task{name: name, row: -1}
	t.regions = t.adopt(regions)
	return t
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Regions returns the task's regions in order. The slice is a copy; the
// regions are shared.
func (t *Task) Regions() []*model.Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*model.Region(nil), t.regions...)
}

// Len returns the number of regions.
func (t *Task) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.regions)
}

// SetPosition moves the playhead.
func (t *Task) SetPosition(frame int) {
	t.mu.Lock()
	t.position = frame
	t.mu.Unlock()
}

// Position returns the playhead frame.
func (t *Task) Position() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

// SetSelectedRow highlights a row of the region list.
func (t *Task) SetSelectedRow(index int) {
	t.mu.Lock()
	t.row = index
	t.mu.Unlock()
}

// SelectedRow returns the highlighted row, or -1.
func (t *Task) SelectedRow() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.row
}

// Selected returns the first selected region, or nil.
func (t *Task) Selected() *model.Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return model.FindSelected(t.regions)
}

// SelectionCount returns how many regions are selected.
func (t *Task) SelectionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, r := range t.regions {
		if r.IsSelected() {
			n++
		}
	}
	return n
}

// FindByBaseID returns the region whose id before "#" equals id.
func (t *Task) FindByBaseID(id string) *model.Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.regions {
		if r.BaseID() == id {
			return r
		}
	}
	return nil
}

// Replace swaps in a reloaded region list. Regions that were selected before
// stay selected when their id survives the reload.
func (t *Task) Replace(regions []*model.Region) {
	t.mu.Lock()
	selected := make(map[string]struct{ main, extra bool })
	for _, r := range t.regions {
		if r.IsSelected() {
			selected[r.ID] = struct{ main, extra bool }{r.Selected, r.InSelection}
		}
	}
	t.mu.Unlock()

	fresh := t.adopt(regions)
	if len(selected) > 0 {
		for _, r := range fresh {
			s, ok := selected[r.ID]
			r.Selected, r.InSelection = ok && s.main, ok && s.extra
		}
	}

	t.mu.Lock()
	t.regions = fresh
	if t.row >= len(fresh) {
		t.row = -1
	}
	t.mu.Unlock()
	debug.Log("task %s: replaced regions (%d)", t.name, len(fresh))
}

// Apply runs mutate on the region with the given id under the task lock.
// A failed mutation is not rolled back.
func (t *Task) Apply(id string, mutate func(*model.Region) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := model.IndexOf(t.regions, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRegion, id)
	}
	if err := mutate(t.regions[idx]); err != nil {
		return fmt.Errorf("updating region %s: %w", id, err)
	}
	return nil
}

// Snapshot returns detached copies of the regions.
func (t *Task) Snapshot() []*model.Region {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*model.Region, len(t.regions))
	for i, r := range t.regions {
		out[i] = r.Clone()
	}
	return out
}

// adopt clones regions and wires their triggers to this task.
func (t *Task) adopt(regions []*model.Region) []*model.Region {
	out := make([]*model.Region, 0, len(regions))
	for _, r := range regions {
		if r == nil {
			continue
		}
		c := r.Clone()
		c.Trigger = t.trigger(c)
		out = append(out, c)
	}
	return out
}

// trigger returns the selection callback of r. A plain click makes r the
// only selected region; any modifier adds r to the current selection.
func (t *Task) trigger(r *model.Region) func(model.SelectEvent) {
	return func(ev model.SelectEvent) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if ev.CtrlKey || ev.MetaKey || ev.ShiftKey {
			if !r.Selected {
				r.InSelection = true
			}
			return
		}
		for _, o := range t.regions {
			o.Selected, o.InSelection = false, false
		}
		r.Selected = true
	}
}

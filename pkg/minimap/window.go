// Package minimap computes the overview strip of a task's regions: which
// contiguous slice of the region list is shown, and the lifespan segments
// drawn for each shown region.
package minimap

import (
	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

const (
	// MinDisplayEntries is the smallest window size a resize may request.
	MinDisplayEntries = 2
	// DefaultDisplayEntries is the window size when none is configured.
	DefaultDisplayEntries = 16
)

// Window decides which rows of the region list the minimap shows.
//
// The selected row is kept one below the top of the window so the strip
// looks ahead rather than centering. With backfill enabled, a window that
// would run past the end of the list is moved up to stay full.
type Window struct {
	entries  int
	backfill bool
}

// NewWindow returns a window of the given size. Sizes below
// MinDisplayEntries fall back to DefaultDisplayEntries.
func NewWindow(entries int, backfill bool) *Window {
	if entries < MinDisplayEntries {
		entries = DefaultDisplayEntries
	}
	return &Window{entries: entries, backfill: backfill}
}

// DisplayEntries returns the window size.
func (w *Window) DisplayEntries() int {
	return w.entries
}

// SetDisplayEntries resizes the window. Requests below MinDisplayEntries are
// ignored and reported as false.
func (w *Window) SetDisplayEntries(n int) bool {
	if n < MinDisplayEntries {
		return false
	}
	w.entries = n
	return true
}

// Backfill reports whether short tails are backfilled.
func (w *Window) Backfill() bool {
	return w.backfill
}

// Bounds returns the half-open row range [top, end) for a list of total rows
// whose selected row is selected (-1 when nothing is selected).
func (w *Window) Bounds(total, selected int) (top, end int) {
	top = max(selected-1, 0)
	if top > total {
		top = total
	}
	if w.backfill && total-top < w.entries {
		top = max(total-w.entries, 0)
	}
	end = min(top+w.entries, total)
	return top, end
}

// Visible returns the slice of regions the window shows and the index of its
// first row.
func (w *Window) Visible(regions []*model.Region) ([]*model.Region, int) {
	defer metrics.Timer(metrics.MinimapWindow)()

	top, end := w.Bounds(len(regions), SelectedIndex(regions))
	return regions[top:end], top
}

// SelectedIndex returns the index of the first region flagged selected, or -1.
func SelectedIndex(regions []*model.Region) int {
	for i, r := range regions {
		if r != nil && r.Selected {
			return i
		}
	}
	return -1
}

package datasource

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

// RegionDiff lists what changed between two loads of the same task.
type RegionDiff struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether nothing changed.
func (d RegionDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Summary returns a one-line description such as "+2 -1 ~3".
func (d RegionDiff) Summary() string {
	if d.Empty() {
		return "no changes"
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d", n))
	}
	if n := len(d.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d", n))
	}
	return strings.Join(parts, " ")
}

// Diff compares two region lists by id. Selection flags are ignored; a
// region counts as changed when its keyframes, color or labels differ.
func Diff(before, after []*model.Region) RegionDiff {
	old := make(map[string]*model.Region, len(before))
	for _, r := range before {
		old[r.ID] = r
	}

	var d RegionDiff
	seen := make(map[string]bool, len(after))
	for _, r := range after {
		seen[r.ID] = true
		prev, ok := old[r.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, r.ID)
		case !sameContent(prev, r):
			d.Changed = append(d.Changed, r.ID)
		}
	}
	for _, r := range before {
		if !seen[r.ID] {
			d.Removed = append(d.Removed, r.ID)
		}
	}
	return d
}

func sameContent(a, b *model.Region) bool {
	return a.Color == b.Color &&
		slices.Equal(a.Sequence, b.Sequence) &&
		slices.Equal(a.Labels, b.Labels)
}

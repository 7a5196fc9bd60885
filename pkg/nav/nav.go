// Package nav moves the selection through an ordered list of regions.
//
// The pure traversal functions (NextRegion, PreviousRegion, SameTracking,
// FirstUnlabeled) never touch external state. Navigator wraps them with the
// side effects of selecting a region: invoking the region's trigger, moving
// the playhead and highlighting the timeline row.
package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// ErrLookupFailure means the current region is not part of the list being traversed.
var ErrLookupFailure = errors.New("current region not found")

// ErrNoSelection is returned by operations that need a selected region.
var ErrNoSelection = errors.New("no region selected")

// NextRegion returns the region after current in regions. At the end of the
// list it wraps to the first region when cyclic is set and returns nil
// otherwise. A current region that is nil or missing from regions is an
// ErrLookupFailure.
func NextRegion(current *model.Region, regions []*model.Region, cyclic bool) (*model.Region, error) {
	defer metrics.Timer(metrics.NavStep)()

	if current == nil {
		return nil, fmt.Errorf("%w: no current region", ErrLookupFailure)
	}
	i := model.IndexOf(regions, current.ID)
	if i == -1 {
		return nil, fmt.Errorf("%w: %s not among %d regions", ErrLookupFailure, current.ID, len(regions))
	}
	if n := i + 1; n < len(regions) {
		return regions[n], nil
	}
	if cyclic {
		return regions[0], nil
	}
	return nil, nil
}

// PreviousRegion is NextRegion over the reversed list, so the two are exact
// inverses on any ordering.
func PreviousRegion(current *model.Region, regions []*model.Region, cyclic bool) (*model.Region, error) {
	return NextRegion(current, model.Reversed(regions), cyclic)
}

// SameTracking returns the regions of regions that share region's tracking
// group. Without ignoreBefore membership is a prefix match on the id; with it
// candidates must parse and carry a part no lower than region's part.
// A region whose id is malformed matches nothing.
func SameTracking(region *model.Region, regions []*model.Region, ignoreBefore bool) []*model.Region {
	tid, err := model.TrackingOf(region)
	if err != nil {
		return nil
	}

	match := func(r *model.Region) bool {
		return strings.HasPrefix(r.ID, tid.Prefix)
	}
	if ignoreBefore {
		match = func(r *model.Region) bool {
			rid, err := model.ParseTrackingID(r.ID)
			if err != nil || rid.Prefix != tid.Prefix {
				return false
			}
			return tid.HasPart && rid.HasPart && tid.Part <= rid.Part
		}
	}

	var out []*model.Region
	for _, r := range regions {
		if r != nil && match(r) {
			out = append(out, r)
		}
	}
	return out
}

// UnlabeledRegions returns the regions with zero labels, in order.
func UnlabeledRegions(regions []*model.Region) []*model.Region {
	var out []*model.Region
	for _, r := range regions {
		if r.IsUnlabeled() {
			out = append(out, r)
		}
	}
	return out
}

// FirstUnlabeled returns the first region with zero labels, or nil.
func FirstUnlabeled(regions []*model.Region) *model.Region {
	for _, r := range regions {
		if r.IsUnlabeled() {
			return r
		}
	}
	return nil
}

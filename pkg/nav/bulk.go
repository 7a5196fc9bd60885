package nav

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// Outcome is how a bulk selection ended.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	if o == Cancelled {
		return "cancelled"
	}
	return "completed"
}

// BulkResult reports a finished bulk selection.
type BulkResult struct {
	Title     string
	Outcome   Outcome
	Processed int
	Total     int
	Restored  *model.Region
}

// Progress is called after each region of a bulk selection.
type Progress func(done, total int)

// Bulk is a bulk selection in progress. Each Step adds one region to the
// selection, so a caller with its own event loop can run one step per turn.
type Bulk struct {
	nav      *Navigator
	ctx      context.Context
	regions  []*model.Region
	previous *model.Region
	progress Progress
	res      BulkResult
	done     bool
}

// BeginBulk prepares a bulk selection of regions. previous is reselected if
// the selection is cancelled.
func (n *Navigator) BeginBulk(ctx context.Context, regions []*model.Region, title string, previous *model.Region, progress Progress) *Bulk {
	return &Bulk{
		nav:      n,
		ctx:      ctx,
		regions:  regions,
		previous: previous,
		progress: progress,
		res:      BulkResult{Title: title, Total: len(regions)},
	}
}

// Step processes the next region and reports whether Step should be called
// again. The context is checked before every region.
func (b *Bulk) Step() bool {
	if b.done {
		return false
	}
	if b.res.Processed >= len(b.regions) {
		b.finish(Completed)
		return false
	}
	if b.ctx.Err() != nil {
		b.finish(Cancelled)
		return false
	}

	r := b.regions[b.res.Processed]
	if !r.IsSelected() && r.CanSelect() {
		r.Trigger(model.NewSelectEvent(model.WithCtrl()))
	}
	b.res.Processed++
	if b.progress != nil {
		b.progress(b.res.Processed, b.res.Total)
	}
	return true
}

// Done reports whether the bulk selection has finished.
func (b *Bulk) Done() bool {
	return b.done
}

// Result returns the outcome so far; it is final once Done is true.
func (b *Bulk) Result() BulkResult {
	return b.res
}

func (b *Bulk) finish(outcome Outcome) {
	b.done = true
	b.res.Outcome = outcome
	n := b.nav

	if outcome == Cancelled {
		b.res.Restored = n.reselect(b.previous)
		debug.Log("bulk select %q cancelled after %d/%d", b.res.Title, b.res.Processed, b.res.Total)
		n.notifier.Notify(Notice{Level: NoticeInfo, Title: b.res.Title + " cancelled", Message: "selection cancelled"})
		return
	}
	n.notifier.Notify(Notice{
		Level:   NoticeInfo,
		Title:   b.res.Title + " done",
		Message: fmt.Sprintf("selected %d regions", b.res.Total),
	})
}

// SelectAllMatching adds every region of regions to the selection, yielding
// between steps. When ctx is cancelled before the last step, previous becomes
// the only selected region again and the outcome is Cancelled.
func (n *Navigator) SelectAllMatching(ctx context.Context, regions []*model.Region, title string, previous *model.Region, progress Progress) BulkResult {
	defer metrics.Timer(metrics.BulkSelect)()

	b := n.BeginBulk(ctx, regions, title, previous, progress)
	for b.Step() {
		n.yield()
	}
	return b.Result()
}

// SameTrackingBulk prepares the selection of region's tracking group, or with
// ignoreBefore of region and the later parts of its track.
func (n *Navigator) SameTrackingBulk(ctx context.Context, region *model.Region, ignoreBefore bool, progress Progress) (*Bulk, error) {
	if region == nil {
		n.notifier.Notify(Notice{Level: NoticeError, Message: "no region selected"})
		return nil, ErrNoSelection
	}

	title := region.ID
	if tid, err := model.TrackingOf(region); err == nil {
		title = tid.Label()
		if ignoreBefore {
			title = fmt.Sprintf("%s%d onward", tid.Prefix, tid.Part)
		}
	}
	group := n.SameTrackingRegions(region, ignoreBefore)
	return n.BeginBulk(ctx, group, title, region, progress), nil
}

// SelectSameTracking runs SameTrackingBulk to completion.
func (n *Navigator) SelectSameTracking(ctx context.Context, region *model.Region, ignoreBefore bool, progress Progress) (BulkResult, error) {
	b, err := n.SameTrackingBulk(ctx, region, ignoreBefore, progress)
	if err != nil {
		return BulkResult{}, err
	}
	defer metrics.Timer(metrics.BulkSelect)()
	for b.Step() {
		n.yield()
	}
	return b.Result(), nil
}

// AllBulk prepares the selection of every region of the task.
func (n *Navigator) AllBulk(ctx context.Context, progress Progress) *Bulk {
	return n.BeginBulk(ctx, n.Regions(), "all regions", n.Selected(), progress)
}

// SelectAll selects every region of the task.
func (n *Navigator) SelectAll(ctx context.Context, progress Progress) BulkResult {
	return n.SelectAllMatching(ctx, n.Regions(), "all regions", n.Selected(), progress)
}

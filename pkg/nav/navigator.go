package nav

import (
	"runtime"

	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// RegionSource supplies the live, ordered region list of the current task.
type RegionSource interface {
	Regions() []*model.Region
}

// PositionSetter moves the playback head to a frame.
type PositionSetter interface {
	SetPosition(frame int)
}

// RowHighlighter marks a timeline row as the selected one.
type RowHighlighter interface {
	SetSelectedRow(index int)
}

// NoticeLevel classifies a user-facing notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient message for the user (a toast in the UI).
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopPosition struct{}

func (nopPosition) SetPosition(int) {}

type nopRows struct{}

func (nopRows) SetSelectedRow(int) {}

// Option configures a Navigator.
type Option func(*Navigator)

// WithPositionSetter sets the playhead controller.
func WithPositionSetter(p PositionSetter) Option {
	return func(n *Navigator) { n.position = p }
}

// WithRowHighlighter sets the timeline row controller.
func WithRowHighlighter(r RowHighlighter) Option {
	return func(n *Navigator) { n.rows = r }
}

// WithNotifier sets where user-facing notices go.
func WithNotifier(nt Notifier) Option {
	return func(n *Navigator) { n.notifier = nt }
}

// WithCyclic sets whether plain next/previous wrap around (default true).
func WithCyclic(cyclic bool) Option {
	return func(n *Navigator) { n.cyclic = cyclic }
}

// WithYield replaces the function called between bulk selection steps.
func WithYield(fn func()) Option {
	return func(n *Navigator) { n.yield = fn }
}

// Navigator selects regions of a task and keeps the playhead and the
// highlighted row in step with the selection.
type Navigator struct {
	source   RegionSource
	position PositionSetter
	rows     RowHighlighter
	notifier Notifier
	cyclic   bool
	yield    func()
}

// New creates a Navigator over src.
func New(src RegionSource, opts ...Option) *Navigator {
	n := &Navigator{
		source:   src,
		position: nopPosition{},
		rows:     nopRows{},
		notifier: nopNotifier{},
		cyclic:   true,
		yield:    runtime.Gosched,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Cyclic reports whether plain next/previous wrap around.
func (n *Navigator) Cyclic() bool {
	return n.cyclic
}

// Regions returns a snapshot of the source's region list.
func (n *Navigator) Regions() []*model.Region {
	regions := n.source.Regions()
	out := make([]*model.Region, len(regions))
	copy(out, regions)
	return out
}

// Selected returns the first selected region of the task, or nil.
func (n *Navigator) Selected() *model.Region {
	return model.FindSelected(n.source.Regions())
}

// SelectRegion makes r the selected region. Regions without a trigger are
// ignored and nil is returned. The trigger only fires when r is not selected
// yet; the playhead and the row highlight are always updated.
func (n *Navigator) SelectRegion(r *model.Region, opts ...model.EventOption) *model.Region {
	if !r.CanSelect() {
		return nil
	}
	if !r.IsSelected() {
		r.Trigger(model.NewSelectEvent(opts...))
	}
	n.focus(r)
	return r
}

// reselect makes r the only selected region even when it is selected
// already, dropping regions added to the selection alongside it.
func (n *Navigator) reselect(r *model.Region) *model.Region {
	if !r.CanSelect() {
		return nil
	}
	r.Trigger(model.NewSelectEvent())
	n.focus(r)
	return r
}

// focus moves the playhead and the row highlight to r.
func (n *Navigator) focus(r *model.Region) {
	if frame, ok := r.StartFrame(); ok {
		n.position.SetPosition(frame)
	}
	if i := model.IndexOf(n.source.Regions(), r.ID); i != -1 {
		n.rows.SetSelectedRow(i)
	}
}

// SelectNext selects the region after the current selection within regions.
// A nil regions means every region of the task. With nothing selected the
// first region of regions acts as the current one.
func (n *Navigator) SelectNext(regions []*model.Region, cyclic bool) *model.Region {
	if regions == nil {
		regions = n.Regions()
	}
	current := n.Selected()
	if current == nil && len(regions) > 0 {
		current = regions[0]
	}
	if current == nil {
		return nil
	}
	next, err := NextRegion(current, regions, cyclic)
	if err != nil {
		debug.Log("select next: %v", err)
		return nil
	}
	return n.SelectRegion(next)
}

// SelectPrevious is SelectNext over the reversed list.
func (n *Navigator) SelectPrevious(regions []*model.Region, cyclic bool) *model.Region {
	if regions == nil {
		regions = n.Regions()
	}
	return n.SelectNext(model.Reversed(regions), cyclic)
}

// Next selects the following region of the task.
func (n *Navigator) Next() *model.Region {
	return n.SelectNext(nil, n.cyclic)
}

// Previous selects the preceding region of the task.
func (n *Navigator) Previous() *model.Region {
	return n.SelectPrevious(nil, n.cyclic)
}

// SameTrackingRegions returns the task's regions in region's tracking group.
func (n *Navigator) SameTrackingRegions(region *model.Region, ignoreBefore bool) []*model.Region {
	if _, err := model.TrackingOf(region); err != nil && region != nil {
		debug.Log("tracking group of %s: %v", region.ID, err)
	}
	return SameTracking(region, n.source.Regions(), ignoreBefore)
}

// NextInTrack selects the next region of the selected region's tracking
// group without wrapping around.
func (n *Navigator) NextInTrack() *model.Region {
	r := n.SelectNext(n.trackRegions(), false)
	if r == nil {
		n.notifier.Notify(Notice{Level: NoticeInfo, Message: "no later region in this track"})
	}
	return r
}

// PreviousInTrack selects the previous region of the selected region's
// tracking group without wrapping around.
func (n *Navigator) PreviousInTrack() *model.Region {
	r := n.SelectPrevious(n.trackRegions(), false)
	if r == nil {
		n.notifier.Notify(Notice{Level: NoticeInfo, Message: "no earlier region in this track"})
	}
	return r
}

func (n *Navigator) trackRegions() []*model.Region {
	group := n.SameTrackingRegions(n.Selected(), false)
	if group == nil {
		// Keep the list non-nil so SelectNext does not fall back to every region.
		group = []*model.Region{}
	}
	return group
}

package minimap

import (
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// Entry is one row of the minimap, ready to paint.
type Entry struct {
	ID        string
	Color     string
	Index     int
	Selected  bool
	Lifespans []Segment
}

// Controller keeps the minimap rows in step with the region list, the window
// size and the pixel scale. Every setter recomputes the rows.
type Controller struct {
	window  *Window
	regions []*model.Region
	scale   float64
	top     int
	entries []Entry
}

// NewController returns a controller over w.
func NewController(w *Window) *Controller {
	if w == nil {
		w = NewWindow(DefaultDisplayEntries, false)
	}
	return &Controller{window: w}
}

// Window returns the controller's window.
func (c *Controller) Window() *Window {
	return c.window
}

// SetRegions replaces the region list.
func (c *Controller) SetRegions(regions []*model.Region) {
	c.regions = regions
	c.refresh()
}

// SetDisplayEntries resizes the window; sizes below MinDisplayEntries are
// ignored and keep the previous size.
func (c *Controller) SetDisplayEntries(n int) bool {
	if !c.window.SetDisplayEntries(n) {
		return false
	}
	c.refresh()
	return true
}

// SetScale derives pixels-per-frame from the strip width and the timeline
// length. A non-positive length leaves the scale unchanged.
func (c *Controller) SetScale(width float64, length int) {
	if length <= 0 {
		return
	}
	c.scale = width / float64(length)
	c.refresh()
}

// Scale returns the current pixels-per-frame.
func (c *Controller) Scale() float64 {
	return c.scale
}

// Top returns the index of the first visible row.
func (c *Controller) Top() int {
	return c.top
}

// Entries returns the visible rows.
func (c *Controller) Entries() []Entry {
	return c.entries
}

// Refresh recomputes the rows after selection flags changed in place.
func (c *Controller) Refresh() {
	c.refresh()
}

func (c *Controller) refresh() {
	visible, top := c.window.Visible(c.regions)
	c.top = top
	c.entries = make([]Entry, 0, len(visible))
	for i, r := range visible {
		c.entries = append(c.entries, Entry{
			ID:        r.ID,
			Color:     r.Color,
			Index:     top + i,
			Selected:  r.IsSelected(),
			Lifespans: VisualizeLifespans(r.Sequence, c.scale),
		})
	}
}

// TimelineLength returns one past the largest keyframe of regions, the
// length a strip has to cover.
func TimelineLength(regions []*model.Region) int {
	length := 0
	for _, r := range regions {
		for _, kf := range r.Sequence {
			if kf.Frame+1 > length {
				length = kf.Frame + 1
			}
		}
	}
	return length
}

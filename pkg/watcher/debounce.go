package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is used when a debouncer is created with zero.
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer runs only the last of a burst of triggers, once the burst has
// been quiet for its duration.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
	gen      uint64
}

// NewDebouncer returns a debouncer. A non-positive d means the default.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn, replacing any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

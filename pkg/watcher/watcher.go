// Package watcher reports changes to a task file. It uses fsnotify on the
// file's directory and falls back to polling when that is unavailable or
// when RW_FORCE_POLL is set.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/regionwork/pkg/debug"
)

// DefaultPollInterval is the stat interval in polling mode.
const DefaultPollInterval = time.Second

// ForcePollEnvVar forces polling mode when set to a true value.
const ForcePollEnvVar = "RW_FORCE_POLL"

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before a change is
// reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithOnChange sets a callback run for every reported change.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets a callback for watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll selects polling mode.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher watches one file.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	onChange     func()
	onError      func(error)

	mu        sync.RWMutex
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMtime time.Time
	lastSize  int64
	cancel    context.CancelFunc
	started   bool
	changeCh  chan struct{}
}

// New returns a watcher for path. Call Start to begin watching.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching until ctx is done or Stop is called. A missing file
// is not an error; it is reported once it appears.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		w.lastMtime, w.lastSize = time.Time{}, 0
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.polling = w.forcePoll || envBool(ForcePollEnvVar)
	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsw.Add(filepath.Dir(w.path))
			if err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.fsw = fsw
			go w.watchEvents(ctx, fsw.Events, fsw.Errors)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}
	w.started = true
	return nil
}

// Stop ends watching. The Changed channel stays open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Polling reports whether the watcher polls instead of using fsnotify.
func (w *Watcher) Polling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// Started reports whether the watcher is running.
func (w *Watcher) Started() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives after each reported change. Changes that arrive while
// one is unread are merged.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// PollInterval returns the polling interval.
func (w *Watcher) PollInterval() time.Duration {
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func (w *Watcher) watchEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notify)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.mu.Lock()
		hadFile := !w.lastMtime.IsZero()
		w.lastMtime, w.lastSize = time.Time{}, 0
		w.mu.Unlock()
		switch {
		case os.IsNotExist(err):
			if hadFile {
				w.onError(ErrFileRemoved)
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	changed := !info.ModTime().Equal(w.lastMtime) || info.Size() != w.lastSize
	w.lastMtime, w.lastSize = info.ModTime(), info.Size()
	w.mu.Unlock()
	if changed {
		w.debouncer.Trigger(w.notify)
	}
}

func (w *Watcher) notify() {
	if !w.Started() {
		return
	}
	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}

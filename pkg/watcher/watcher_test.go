package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 call, got %d", n)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()
	time.Sleep(80 * time.Millisecond)
	if called.Load() {
		t.Error("cancelled call ran")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("got %v", d.Duration())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitChanged(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_ReportsChange(t *testing.T) {
	for _, poll := range []bool{false, true} {
		name := "fsnotify"
		if poll {
			name = "polling"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "regions.jsonl")
			writeFile(t, path, "a\n")

			var calls atomic.Int32
			w, err := New(path,
				WithDebounce(20*time.Millisecond),
				WithPollInterval(20*time.Millisecond),
				WithForcePoll(poll),
				WithOnChange(func() { calls.Add(1) }),
			)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Start(context.Background()); err != nil {
				t.Fatal(err)
			}
			defer w.Stop()
			if poll && !w.Polling() {
				t.Error("expected polling mode")
			}

			time.Sleep(30 * time.Millisecond)
			writeFile(t, path, "a\nb\n")
			waitChanged(t, w)
			if calls.Load() == 0 {
				t.Error("OnChange not called")
			}
		})
	}
}

func TestWatcher_EnvForcesPolling(t *testing.T) {
	t.Setenv(ForcePollEnvVar, "yes")
	path := filepath.Join(t.TempDir(), "regions.jsonl")
	writeFile(t, path, "a\n")
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if !w.Polling() {
		t.Error("RW_FORCE_POLL should select polling")
	}
}

func TestWatcher_FileRemovedWhilePolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.jsonl")
	writeFile(t, path, "a\n")

	errs := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(err error) { errs <- err }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if !errors.Is(err, ErrFileRemoved) {
			t.Errorf("expected ErrFileRemoved, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("removal not reported")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jsonl")
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.Started() {
		t.Error("not started yet")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("missing file should not fail Start: %v", err)
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	w.Stop()
	w.Stop()
	if w.Started() {
		t.Error("still started after Stop")
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("path should be absolute: %s", w.Path())
	}
}

func TestWatcher_ContextCancelStopsPolling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.jsonl")
	writeFile(t, path, "a\n")
	var calls atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounce(10*time.Millisecond),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	cancel()
	time.Sleep(30 * time.Millisecond)
	writeFile(t, path, "changed content\n")
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("change reported after context cancel")
	}
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "TRUE": true, " on ": true, "0": false, "": false, "nope": false} {
		t.Setenv("RW_TEST_BOOL", v)
		if got := envBool("RW_TEST_BOOL"); got != want {
			t.Errorf("envBool(%q) = %v, want %v", v, got, want)
		}
	}
}

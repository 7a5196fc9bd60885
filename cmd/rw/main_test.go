package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/regionwork/pkg/audio"
	"github.com/vanderheijden86/regionwork/pkg/config"
	"github.com/vanderheijden86/regionwork/pkg/task"
	"github.com/vanderheijden86/regionwork/pkg/testutil"
)

func writePCM(t *testing.T, name string, samples ...float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, audio.EncodePCM16(samples), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSplit(t *testing.T) {
	a := writePCM(t, "a.pcm", 0.5, -0.25, 0.25, -0.5)
	b := writePCM(t, "b.pcm", 0.125, 0, 0.25, 0, 0.5, 0)

	var out bytes.Buffer
	if err := runSplit(context.Background(), &out, config.DefaultConfig(), []string{a, b}, 2); err != nil {
		t.Fatalf("runSplit: %v", err)
	}

	var reports []splitReport
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(reports) != 2 || reports[0].File != a || reports[1].File != b {
		t.Fatalf("reports out of order: %+v", reports)
	}
	ch := reports[0].Channels
	if len(ch) != 2 || ch[0].Length != 2 || ch[0].Peak != 0.5 || ch[1].Min != -0.5 {
		t.Errorf("unexpected summary %+v", ch)
	}
	if reports[1].Samples != 6 || reports[1].Channels[0].Length != 3 {
		t.Errorf("unexpected report %+v", reports[1])
	}
}

func TestRunSplitUnaligned(t *testing.T) {
	path := writePCM(t, "odd.pcm", 0.5, 0.5, 0.5)
	err := runSplit(context.Background(), &bytes.Buffer{}, config.DefaultConfig(), []string{path}, 2)
	if !errors.Is(err, audio.ErrUnalignedBuffer) {
		t.Fatalf("expected ErrUnalignedBuffer, got %v", err)
	}
}

func TestRunSplitNeedsFiles(t *testing.T) {
	if err := runSplit(context.Background(), &bytes.Buffer{}, config.DefaultConfig(), nil, 2); err == nil {
		t.Fatal("expected an error without files")
	}
}

func TestPrintListing(t *testing.T) {
	tk := task.New("shots", testutil.Plain("a-1-1#x", "a-1-2#y", "b-1-1#z"))

	var out bytes.Buffer
	if err := printListing(&out, tk, config.DefaultConfig(), "a-1-2"); err != nil {
		t.Fatalf("printListing: %v", err)
	}
	text := out.String()
	for _, want := range []string{"shots: 3 regions, 1 selected", "minimap rows 1-3", "> a-1-2#y", "  b-1-1#z", "20-20+"} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q:\n%s", want, text)
		}
	}

	if err := printListing(&bytes.Buffer{}, tk, config.DefaultConfig(), "zz-9-9"); err == nil {
		t.Error("expected an error for an unknown region")
	}
}

func TestExportSnapshot(t *testing.T) {
	tk := task.New("shots", testutil.QuickTracks(2, 2))
	out := filepath.Join(t.TempDir(), "minimap.svg")
	if err := exportSnapshot(tk, config.DefaultConfig(), "", out); err != nil {
		t.Fatalf("exportSnapshot: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected SVG output")
	}
}

func TestResolveTaskPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.jsonl")
	testutil.WriteRegionsFile(t, path, testutil.Plain("a-1-1#x"))

	got, err := resolveTaskPath(path)
	if err != nil || got != path {
		t.Errorf("file argument: got %q, %v", got, err)
	}
	got, err = resolveTaskPath(dir)
	if err != nil || got != path {
		t.Errorf("dir argument: got %q, %v", got, err)
	}
	if _, err := resolveTaskPath(t.TempDir()); err == nil {
		t.Error("expected an error for an empty directory")
	}
	if _, err := resolveTaskPath(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestTaskName(t *testing.T) {
	if got := taskName("/data/shoot-04.jsonl"); got != "shoot-04" {
		t.Errorf("taskName = %q", got)
	}
}

func TestShouldSuppressTTYQueries(t *testing.T) {
	tests := []struct {
		args []string
		env  bool
		want bool
	}{
		{[]string{"rw", "task.jsonl"}, false, false},
		{[]string{"rw", "-version"}, false, true},
		{[]string{"rw", "--split", "a.pcm"}, false, true},
		{[]string{"rw", "-export-minimap=out.svg"}, false, true},
		{[]string{"rw"}, true, true},
	}
	for _, tt := range tests {
		if got := shouldSuppressTTYQueries(tt.args, tt.env); got != tt.want {
			t.Errorf("shouldSuppressTTYQueries(%v, %v) = %v, want %v", tt.args, tt.env, got, tt.want)
		}
	}
}

package minimap

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func snapshotEntries() []Entry {
	return []Entry{
		{ID: "id-1-1#a", Color: "#ff0000", Lifespans: []Segment{{StartFrame: 0, EndFrame: 10}}},
		{ID: "id-1-2#b", Selected: true, Lifespans: []Segment{{StartFrame: 20, EndFrame: 30, Enabled: true, Open: true}}},
	}
}

func TestSaveSnapshotSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip")
	err := SaveSnapshot(SnapshotOptions{Path: path, Title: "task 7", Length: 50, Entries: snapshotEntries()})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path + ".svg")
	if err != nil {
		t.Fatalf("expected .svg appended: %v", err)
	}
	out := string(data)
	for _, want := range []string{"<svg", "task 7", "id-1-2#b", "#ff0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestSaveSnapshotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip.png")
	if err := SaveSnapshot(SnapshotOptions{Path: path, Length: 50, Entries: snapshotEntries()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
}

func TestSaveSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.svg"), Length: 10}); err == nil {
		t.Error("expected error without rows")
	}
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.svg"), Entries: snapshotEntries()}); err == nil {
		t.Error("expected error without length")
	}
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.gif"), Format: "gif", Length: 10, Entries: snapshotEntries()}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.RGBA{
		"#ff8000":     {R: 0xff, G: 0x80, B: 0x00, A: 0xff},
		"#0f0":        {R: 0x00, G: 0xff, B: 0x00, A: 0xff},
		"rgba(1,2,3)": colorFallback,
		"":            colorFallback,
	}
	for in, want := range tests {
		if got := parseColor(in); got != want {
			t.Errorf("parseColor(%q) = %v, want %v", in, got, want)
		}
	}
}

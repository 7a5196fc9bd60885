package datasource

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/regionwork/pkg/loader"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

func fixture() []*model.Region {
	return []*model.Region{
		{ID: "p-1-1#a", Sequence: []model.Keyframe{{Frame: 0, Enabled: true}, {Frame: 8, Enabled: false}}, Labels: []string{"walk"}, Color: "#ff0000"},
		{ID: "p-1-2#b", Sequence: []model.Keyframe{{Frame: 10, Enabled: true}}, Labels: []string{}, Selected: true},
	}
}

func writeJSONL(t *testing.T, path string, regions []*model.Region) {
	t.Helper()
	var buf bytes.Buffer
	if err := loader.WriteRegions(&buf, regions); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.db")
	if err := SaveSQLite(path, fixture()); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}

	src, err := DetectSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Type != SourceTypeSQLite {
		t.Fatalf("expected sqlite source, got %s", src.Type)
	}

	reader, err := NewSQLiteReader(src)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	n, err := reader.CountRegions()
	if err != nil || n != 2 {
		t.Fatalf("CountRegions = %d, %v", n, err)
	}
	regions, err := reader.LoadRegions()
	if err != nil {
		t.Fatal(err)
	}
	if d := Diff(fixture(), regions); !d.Empty() {
		t.Errorf("sqlite round trip changed regions: %s", d.Summary())
	}
	if !regions[1].Selected || regions[0].Selected {
		t.Error("selection flag lost")
	}
}

func TestNewSQLiteReaderRejectsJSONL(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSONL}); err == nil {
		t.Error("expected error for a JSONL source")
	}
}

func TestDetectSourceJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.jsonl")
	writeJSONL(t, path, fixture())
	src, err := DetectSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Type != SourceTypeJSONL || src.Priority != PriorityJSONL {
		t.Errorf("unexpected source %v", src)
	}
	if _, err := DetectSource(t.TempDir()); err == nil {
		t.Error("directories are not sources")
	}
}

func TestDiscoverAndLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	jsonl := filepath.Join(dir, "regions.jsonl")
	db := filepath.Join(dir, "task.db")
	writeJSONL(t, jsonl, fixture()[:1])
	if err := SaveSQLite(db, fixture()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.jsonl"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	same := time.Now().Add(-time.Minute)
	for _, p := range []string{jsonl, db} {
		if err := os.Chtimes(p, same, same); err != nil {
			t.Fatal(err)
		}
	}

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 valid sources, got %v", sources)
	}
	if sources[0].Type != SourceTypeSQLite {
		t.Errorf("sqlite should win on equal mod times, got %s", sources[0])
	}

	all, err := DiscoverSources(DiscoveryOptions{Dir: dir, ValidateAfterDiscovery: true, IncludeInvalid: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected the empty file kept as invalid, got %d", len(all))
	}

	regions, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 2 {
		t.Errorf("expected the sqlite source's 2 regions, got %d", len(regions))
	}
}

func TestSelectBestSourceNone(t *testing.T) {
	if _, err := SelectBestSource([]DataSource{{Valid: false}}); err == nil {
		t.Error("expected error without valid sources")
	}
}

func TestLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonl")
	b := filepath.Join(dir, "b.db")
	writeJSONL(t, a, fixture()[:1])
	if err := SaveSQLite(b, fixture()); err != nil {
		t.Fatal(err)
	}

	results, err := LoadAll(context.Background(), []string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Path != a || results[1].Path != b {
		t.Fatalf("unexpected results %+v", results)
	}
	merged := Merge(results)
	if len(merged) != 2 || merged[0].ID != "p-1-1#a" || merged[1].ID != "p-1-2#b" {
		t.Errorf("Merge = %v", merged)
	}

	if _, err := LoadAll(context.Background(), []string{a, filepath.Join(dir, "missing.jsonl")}); err == nil {
		t.Error("expected error for a missing path")
	}
}

func TestDiff(t *testing.T) {
	before := fixture()
	after := []*model.Region{
		{ID: "p-1-1#a", Sequence: []model.Keyframe{{Frame: 0, Enabled: true}, {Frame: 9, Enabled: false}}, Labels: []string{"walk"}, Color: "#ff0000"},
		{ID: "p-1-3#c"},
	}
	d := Diff(before, after)
	if len(d.Added) != 1 || d.Added[0] != "p-1-3#c" {
		t.Errorf("Added = %v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != "p-1-2#b" {
		t.Errorf("Removed = %v", d.Removed)
	}
	if len(d.Changed) != 1 || d.Changed[0] != "p-1-1#a" {
		t.Errorf("Changed = %v", d.Changed)
	}
	if got := d.Summary(); got != "+1 -1 ~1" {
		t.Errorf("Summary = %q", got)
	}
	if got := Diff(before, fixture()).Summary(); got != "no changes" {
		t.Errorf("Summary = %q", got)
	}
}

package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

// AssertRegionCount fails if regions does not hold expected entries.
func AssertRegionCount(t *testing.T, regions []*model.Region, expected int) {
	t.Helper()
	if len(regions) != expected {
		t.Errorf("expected %d regions, got %d", expected, len(regions))
	}
}

// AssertNoDuplicateIDs fails if two regions share an id.
func AssertNoDuplicateIDs(t *testing.T, regions []*model.Region) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range regions {
		if seen[r.ID] {
			t.Errorf("duplicate region ID: %s", r.ID)
		}
		seen[r.ID] = true
	}
}

// AssertAllValid fails for every region that does not validate.
func AssertAllValid(t *testing.T, regions []*model.Region) {
	t.Helper()
	for _, r := range regions {
		if err := r.Validate(); err != nil {
			t.Errorf("invalid region %s: %v", r.ID, err)
		}
	}
}

// AssertIDs fails unless regions have exactly the given ids in order.
func AssertIDs(t *testing.T, regions []*model.Region, want ...string) {
	t.Helper()
	if got := IDs(regions); !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

// AssertSelected fails unless exactly the given ids are selected.
func AssertSelected(t *testing.T, regions []*model.Region, want ...string) {
	t.Helper()
	var got []string
	for _, r := range regions {
		if r.IsSelected() {
			got = append(got, r.ID)
		}
	}
	if !slices.Equal(got, want) {
		t.Errorf("selected = %v, want %v", got, want)
	}
}

// IDs returns the ids of regions in order.
func IDs(regions []*model.Region) []string {
	ids := make([]string, len(regions))
	for i, r := range regions {
		ids[i] = r.ID
	}
	return ids
}

// FindRegion returns the region with the given id, or nil.
func FindRegion(regions []*model.Region, id string) *model.Region {
	if i := model.IndexOf(regions, id); i >= 0 {
		return regions[i]
	}
	return nil
}

// WriteRegionsFile writes regions as JSONL to path, creating directories.
func WriteRegionsFile(t *testing.T, path string, regions []*model.Region) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(regions)), 0o644); err != nil {
		t.Fatalf("failed to write regions file: %v", err)
	}
}

// WriteTaskFile writes regions to regions.jsonl in a fresh temp directory
// and returns the file path.
func WriteTaskFile(t *testing.T, regions []*model.Region) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.jsonl")
	WriteRegionsFile(t, path, regions)
	return path
}

package minimap

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

func makeRegions(n, selected int) []*model.Region {
	regions := make([]*model.Region, n)
	for i := range regions {
		regions[i] = &model.Region{
			ID:       fmt.Sprintf("r%d", i),
			Sequence: []model.Keyframe{{Frame: i, Enabled: true}},
			Selected: i == selected,
		}
	}
	return regions
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name             string
		total, sel, n    int
		backfill         bool
		wantTop, wantEnd int
	}{
		{"no selection", 10, -1, 4, false, 0, 4},
		{"first selected", 10, 0, 4, false, 0, 4},
		{"look-ahead", 10, 5, 4, false, 4, 8},
		{"tail", 10, 9, 4, false, 8, 10},
		{"tail backfilled", 10, 9, 4, true, 6, 10},
		{"short list", 3, 1, 16, false, 0, 3},
		{"short list backfilled", 3, 2, 16, true, 0, 3},
		{"empty", 0, -1, 4, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.n, tt.backfill)
			top, end := w.Bounds(tt.total, tt.sel)
			if top != tt.wantTop || end != tt.wantEnd {
				t.Errorf("Bounds(%d,%d) = [%d,%d), want [%d,%d)", tt.total, tt.sel, top, end, tt.wantTop, tt.wantEnd)
			}
		})
	}
}

func TestSetDisplayEntriesIgnoresDegenerate(t *testing.T) {
	w := NewWindow(7, false)
	for _, n := range []int{1, 0, -3} {
		if w.SetDisplayEntries(n) {
			t.Errorf("SetDisplayEntries(%d) should be ignored", n)
		}
	}
	if w.DisplayEntries() != 7 {
		t.Errorf("expected size 7 retained, got %d", w.DisplayEntries())
	}
	if !w.SetDisplayEntries(2) || w.DisplayEntries() != 2 {
		t.Error("size 2 should be accepted")
	}
	if NewWindow(1, false).DisplayEntries() != DefaultDisplayEntries {
		t.Error("degenerate initial size should use the default")
	}
}

func TestVisibleWindowProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 60).Draw(t, "total")
		sel := rapid.IntRange(-1, max(total-1, -1)).Draw(t, "selected")
		entries := rapid.IntRange(2, 20).Draw(t, "entries")
		backfill := rapid.Bool().Draw(t, "backfill")

		regions := makeRegions(total, sel)
		w := NewWindow(entries, backfill)
		visible, top := w.Visible(regions)

		if !backfill {
			if want := min(entries, total-top); len(visible) != want {
				t.Fatalf("len(visible) = %d, want %d (top=%d)", len(visible), want, top)
			}
			if want := max(sel-1, 0); total > 0 && top != want {
				t.Fatalf("top = %d, want %d", top, want)
			}
		}
		if len(visible) > entries {
			t.Fatalf("window larger than %d: %d", entries, len(visible))
		}
		if sel >= 0 && (sel < top || sel >= top+len(visible)) {
			t.Fatalf("selected %d outside window [%d,%d)", sel, top, top+len(visible))
		}
		for i, r := range visible {
			if r != regions[top+i] {
				t.Fatalf("window is not a contiguous slice at %d", i)
			}
		}
	})
}

func TestSelectedIndexUsesSelectedFlag(t *testing.T) {
	regions := makeRegions(4, -1)
	regions[1].InSelection = true
	regions[3].Selected = true
	if got := SelectedIndex(regions); got != 3 {
		t.Errorf("SelectedIndex = %d, want 3", got)
	}
}

package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"walk", 10, "walk"},
		{"person-1-2#abcd", 8, "person-…"},
		{"田中さん", 5, "田中…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFitPadsWideText(t *testing.T) {
	got := fit("佐藤さん", 10)
	if w := runewidth.StringWidth(got); w != 10 {
		t.Errorf("fit width = %d, want 10 (%q)", w, got)
	}
	if got := fit("car-1-1", 4); runewidth.StringWidth(got) != 4 {
		t.Errorf("fit should truncate to 4 cells, got %q", got)
	}
}

package minimap

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

func TestVisualizeLifespans(t *testing.T) {
	tests := []struct {
		name  string
		seq   []model.Keyframe
		scale float64
		want  []Segment
	}{
		{
			name: "empty",
			seq:  nil,
			want: nil,
		},
		{
			name:  "single open keyframe",
			seq:   []model.Keyframe{{Frame: 5, Enabled: true}},
			scale: 2,
			want:  []Segment{{StartFrame: 5, EndFrame: 5, Start: 10, Enabled: true, Open: true, Points: 1}},
		},
		{
			name:  "closed span",
			seq:   []model.Keyframe{{Frame: 2, Enabled: true}, {Frame: 6, Enabled: false}},
			scale: 1.5,
			want:  []Segment{{StartFrame: 2, EndFrame: 6, Start: 3, Width: 6, Enabled: false, Points: 2}},
		},
		{
			name: "gap then open tail",
			seq: []model.Keyframe{
				{Frame: 0, Enabled: true},
				{Frame: 10, Enabled: false},
				{Frame: 20, Enabled: true},
				{Frame: 25, Enabled: true},
			},
			scale: 1,
			want: []Segment{
				{StartFrame: 0, EndFrame: 10, Start: 0, Width: 10, Enabled: false, Points: 2},
				{StartFrame: 20, EndFrame: 25, Start: 20, Width: 5, Enabled: true, Open: true, Points: 2},
			},
		},
		{
			name: "isolated disabled keyframes",
			seq: []model.Keyframe{
				{Frame: 1, Enabled: false},
				{Frame: 3, Enabled: false},
			},
			scale: 1,
			want: []Segment{
				{StartFrame: 1, EndFrame: 1, Start: 1, Points: 1},
				{StartFrame: 3, EndFrame: 3, Start: 3, Points: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisualizeLifespans(tt.seq, tt.scale)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestVisualizeLifespansIsPure(t *testing.T) {
	seq := []model.Keyframe{{Frame: 1, Enabled: true}, {Frame: 4, Enabled: false}, {Frame: 8, Enabled: true}}
	a := VisualizeLifespans(seq, 3)
	b := VisualizeLifespans(seq, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("same input should give the same segments")
	}
	if seq[1].Frame != 4 || seq[1].Enabled {
		t.Error("input sequence must not be modified")
	}
}

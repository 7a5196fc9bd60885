package minimap

import (
	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// Segment is one drawable span of a region's lifespan.
//
// Start and Width are in pixels (frames times scale). Open marks the final
// segment of a region that is still running at its last keyframe: renderers
// extend it to the right edge instead of stopping at Width.
type Segment struct {
	StartFrame int
	EndFrame   int
	Start      float64
	Width      float64
	Enabled    bool
	Open       bool
	Points     int
}

// VisualizeLifespans turns a keyframe sequence into segments. A keyframe that
// follows an enabled keyframe extends the current segment; a keyframe after
// a disabled one (or the first keyframe) starts a new segment. The result
// depends only on seq and scale.
func VisualizeLifespans(seq []model.Keyframe, scale float64) []Segment {
	defer metrics.Timer(metrics.LifespanVisual)()

	if len(seq) == 0 {
		return nil
	}

	var segs []Segment
	for i, kf := range seq {
		if i == 0 || !seq[i-1].Enabled {
			segs = append(segs, Segment{
				StartFrame: kf.Frame,
				EndFrame:   kf.Frame,
				Start:      float64(kf.Frame) * scale,
				Enabled:    kf.Enabled,
				Points:     1,
			})
			continue
		}
		last := &segs[len(segs)-1]
		last.EndFrame = kf.Frame
		last.Width = float64(kf.Frame-last.StartFrame) * scale
		last.Enabled = kf.Enabled
		last.Points++
	}

	if last := &segs[len(segs)-1]; last.Enabled {
		last.Open = true
	}
	return segs
}

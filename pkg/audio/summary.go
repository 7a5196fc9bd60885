package audio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ChannelSummary describes one split channel.
type ChannelSummary struct {
	Channel int     `json:"channel"`
	Length  int     `json:"length"`
	Peak    float64 `json:"peak"`
	Min     float64 `json:"min"`
	RMS     float64 `json:"rms"`
}

// Summarize returns the length, extremes and RMS level of each channel.
// Empty channels report zeros.
func Summarize(channels [][]float32) []ChannelSummary {
	out := make([]ChannelSummary, len(channels))
	for c, samples := range channels {
		out[c] = ChannelSummary{Channel: c, Length: len(samples)}
		if len(samples) == 0 {
			continue
		}
		buf := getScratch(samples)
		x := *buf
		out[c].Peak = floats.Max(x)
		out[c].Min = floats.Min(x)
		out[c].RMS = floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
		putScratch(buf)
	}
	return out
}

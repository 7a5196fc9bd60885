// Package audio splits interleaved sample buffers into per-channel buffers,
// either directly or through a background compute worker.
package audio

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/regionwork/pkg/metrics"
)

var (
	// ErrChannelCount is returned for a channel count below one.
	ErrChannelCount = errors.New("channel count must be at least 1")
	// ErrUnalignedBuffer is returned when the buffer length is not a multiple
	// of the channel count.
	ErrUnalignedBuffer = errors.New("buffer length is not a multiple of the channel count")
)

// SplitChannels deinterleaves value into channels buffers. Sample i goes to
// channel i%channels at position i/channels.
func SplitChannels(value []float32, channels int) ([][]float32, error) {
	defer metrics.Timer(metrics.ChannelSplit)()

	if channels < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrChannelCount, channels)
	}
	if len(value)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", ErrUnalignedBuffer, len(value), channels)
	}

	frames := len(value) / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for i, v := range value {
		out[i%channels][i/channels] = v
	}
	return out, nil
}

// Interleave is the inverse of SplitChannels. All buffers must have the same
// length.
func Interleave(channels [][]float32) ([]float32, error) {
	if len(channels) == 0 {
		return nil, nil
	}
	frames := len(channels[0])
	for c, buf := range channels {
		if len(buf) != frames {
			return nil, fmt.Errorf("channel %d has %d samples, want %d", c, len(buf), frames)
		}
	}
	out := make([]float32, 0, frames*len(channels))
	for f := 0; f < frames; f++ {
		for _, buf := range channels {
			out = append(out, buf[f])
		}
	}
	return out, nil
}

package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// Samples is a sample buffer as it crosses the worker boundary. It encodes
// as a base64 string of little-endian float32 bits, so NaN and infinities
// arrive unchanged. A plain JSON number array is also accepted.
type Samples []float32

// MarshalJSON implements json.Marshaler.
func (s Samples) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, len(s)*4)
	for i, v := range s {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return json.Marshal(buf)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Samples) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var plain []float32
		if err := json.Unmarshal(data, &plain); err != nil {
			return fmt.Errorf("decoding samples: %w", err)
		}
		*s = plain
		return nil
	}

	var buf []byte
	if err := json.Unmarshal(data, &buf); err != nil {
		return fmt.Errorf("decoding samples: %w", err)
	}
	if len(buf)%4 != 0 {
		return fmt.Errorf("decoding samples: %d bytes is not a whole number of float32 samples", len(buf))
	}
	out := make(Samples, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	*s = out
	return nil
}

func toSamples(chans [][]float32) []Samples {
	out := make([]Samples, len(chans))
	for i, c := range chans {
		out[i] = c
	}
	return out
}

func fromSamples(chans []Samples) [][]float32 {
	out := make([][]float32, len(chans))
	for i, c := range chans {
		out[i] = c
	}
	return out
}

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/vanderheijden86/regionwork/pkg/metrics"
)

// DecodePCM16 converts little-endian signed 16-bit samples to floats in
// [-1, 1). A trailing odd byte is dropped.
func DecodePCM16(data []byte) []float32 {
	defer metrics.Timer(metrics.PCMDecode)()

	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	samples := make([]float32, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768
	}
	return samples
}

// EncodePCM16 converts floats back to little-endian 16-bit samples, clamping
// to the representable range.
func EncodePCM16(samples []float32) []byte {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		scaled := math.Round(float64(v) * 32768)
		scaled = max(min(scaled, math.MaxInt16), math.MinInt16)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(scaled)))
	}
	return buf
}

// ReadPCM16File reads a raw PCM16 file.
func ReadPCM16File(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodePCM16(data), nil
}

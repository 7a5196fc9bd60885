// Package metrics provides timing instrumentation for rw.
//
// Metrics are collected in-memory with atomic operations, so worker
// goroutines and the UI loop can record concurrently. Collection is enabled
// by default and disabled with RW_METRICS=0.
//
//	func step() {
//	    defer metrics.Timer(metrics.NavStep)()
//	}
package metrics

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("RW_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 means not set
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record records a single measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled.Load() {
		return
	}
	ns := d.Nanoseconds()
	if ns <= 0 {
		ns = 1
	}

	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return m.count.Load()
}

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()

	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
		MinMs:   float64(m.minNs.Load()) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called:
//
//	defer metrics.Timer(metrics.MinimapWindow)()
func Timer(m *TimingMetric) func() {
	if !enabled.Load() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Global timing metrics.
var (
	NavStep          = newTimingMetric("nav_step")
	BulkSelect       = newTimingMetric("bulk_select")
	MinimapWindow    = newTimingMetric("minimap_window")
	LifespanVisual   = newTimingMetric("lifespan_visualize")
	ComputeRoundTrip = newTimingMetric("compute_round_trip")
	ChannelSplit     = newTimingMetric("channel_split")
	PCMDecode        = newTimingMetric("pcm_decode")
	RegionLoad       = newTimingMetric("region_load")
	UIRender         = newTimingMetric("ui_render")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		NavStep,
		BulkSelect,
		MinimapWindow,
		LifespanVisual,
		ComputeRoundTrip,
		ChannelSplit,
		PCMDecode,
		RegionLoad,
		UIRender,
	}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that recorded anything.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteJSON writes AllTimingStats as indented JSON.
func WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(AllTimingStats())
}

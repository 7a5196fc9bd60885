// Package testutil provides region fixture generators and assertions.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/regionwork/pkg/model"
)

// GeneratorConfig controls region generation.
type GeneratorConfig struct {
	Seed          int64    // Random seed (0 = use current time)
	Prefixes      []string // Tracking prefixes (default: person, car)
	MaxKeyframes  int      // Upper bound of keyframes per region (default 4)
	FrameStep     int      // Frames between parts of a track (default 100)
	UnlabeledRate float64  // Share of regions without labels (default 0.25)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42,
		Prefixes:      []string{"person", "car"},
		MaxKeyframes:  4,
		FrameStep:     100,
		UnlabeledRate: 0.25,
	}
}

var (
	personLabels = []string{"田中" + model.PersonLabelSuffix, "佐藤" + model.PersonLabelSuffix}
	actionLabels = []string{"walk", "run", "stop", "turn"}
	colors       = []string{"#7aa2f7", "#9ece6a", "#f7768e", "#e0af68"}
)

// Generator creates region fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = def.Prefixes
	}
	if cfg.MaxKeyframes <= 0 {
		cfg.MaxKeyframes = def.MaxKeyframes
	}
	if cfg.FrameStep <= 0 {
		cfg.FrameStep = def.FrameStep
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// RegionID formats a tracked region id: "<prefix>-<track>-<part>#<suffix>".
func RegionID(prefix string, track, part int, suffix string) string {
	id := fmt.Sprintf("%s-%d-%d", prefix, track, part)
	if suffix != "" {
		id += "#" + suffix
	}
	return id
}

// Tracks returns tracks regions per prefix, each split into parts regions.
// Regions are ordered by prefix, track and part, and parts of a track
// follow each other on the timeline.
func (g *Generator) Tracks(tracks, parts int) []*model.Region {
	var regions []*model.Region
	for _, prefix := range g.cfg.Prefixes {
		for track := 1; track <= tracks; track++ {
			for part := 1; part <= parts; part++ {
				start := (part - 1) * g.cfg.FrameStep
				regions = append(regions, &model.Region{
					ID:       RegionID(prefix, track, part, fmt.Sprintf("%04x", g.rng.Intn(0x10000))),
					Sequence: g.Sequence(start, g.cfg.FrameStep-1),
					Color:    colors[g.rng.Intn(len(colors))],
					Labels:   g.labels(),
				})
			}
		}
	}
	return regions
}

// Sequence returns between one and MaxKeyframes keyframes in
// [start, start+span], in frame order. The last keyframe is enabled with
// even odds.
func (g *Generator) Sequence(start, span int) []model.Keyframe {
	n := 1 + g.rng.Intn(g.cfg.MaxKeyframes)
	seq := make([]model.Keyframe, n)
	frame := start
	for i := range seq {
		seq[i] = model.Keyframe{Frame: frame, Enabled: i < n-1 || g.rng.Intn(2) == 0}
		if span > 0 {
			frame += 1 + g.rng.Intn(max(span/n, 1))
		}
	}
	return seq
}

func (g *Generator) labels() []string {
	if g.rng.Float64() < g.cfg.UnlabeledRate {
		return []string{}
	}
	labels := []string{actionLabels[g.rng.Intn(len(actionLabels))]}
	if g.rng.Intn(2) == 0 {
		labels = append(labels, personLabels[g.rng.Intn(len(personLabels))])
	}
	return labels
}

// ToJSONL converts regions to JSONL format.
func ToJSONL(regions []*model.Region) string {
	var sb strings.Builder
	for _, r := range regions {
		data, _ := json.Marshal(r)
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// QuickTracks generates tracks with the default config.
func QuickTracks(tracks, parts int) []*model.Region {
	return NewDefault().Tracks(tracks, parts)
}

// Plain returns regions with the given ids, one keyframe each ten frames
// apart, all labeled.
func Plain(ids ...string) []*model.Region {
	regions := make([]*model.Region, len(ids))
	for i, id := range ids {
		regions[i] = &model.Region{
			ID:       id,
			Sequence: []model.Keyframe{{Frame: i * 10, Enabled: true}},
			Labels:   []string{"walk"},
		}
	}
	return regions
}

// Empty returns an empty region list.
func Empty() []*model.Region {
	return []*model.Region{}
}

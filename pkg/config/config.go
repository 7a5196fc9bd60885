// Package config handles loading and saving rw configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/rw/config.yaml
//   - State:   ~/.local/state/rw/ (last opened task)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for every setting.
const (
	DefaultMinimapEntries  = 7
	DefaultTimelineEntries = 7
	DefaultMinimapWidth    = 60
	DefaultComputeTimeout  = 10 * time.Second
	DefaultComputeQueue    = 16
	DefaultWatchDebounce   = 200 * time.Millisecond

	// MinEntries is the smallest accepted row count; smaller values are
	// ignored.
	MinEntries = 2
	// MinMinimapWidth is the narrowest accepted strip.
	MinMinimapWidth = 10
)

// Environment overrides, applied after the file is read.
const (
	EnvMinimapEntries = "RW_MINIMAP_ENTRIES"
	EnvComputeTimeout = "RW_COMPUTE_TIMEOUT"
	EnvForcePoll      = "RW_FORCE_POLL"
)

// UIConfig holds display settings.
type UIConfig struct {
	MinimapEntries  int  `yaml:"minimap_entries,omitempty"`  // Rows in the minimap window
	TimelineEntries int  `yaml:"timeline_entries,omitempty"` // Rows in the timeline list
	MinimapBackfill bool `yaml:"minimap_backfill"`           // Pull the window up near the end of the list
	MinimapWidth    int  `yaml:"minimap_width,omitempty"`    // Strip width in cells
}

// NavigationConfig holds traversal settings.
type NavigationConfig struct {
	Cyclic bool `yaml:"cyclic"` // Wrap next/previous around the ends
}

// ComputeConfig controls the background split worker.
type ComputeConfig struct {
	Timeout time.Duration `yaml:"timeout"`         // 0 waits forever
	Queue   int           `yaml:"queue,omitempty"` // Worker inbox size
}

// WatchConfig controls task file reloading.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Poll     bool          `yaml:"poll"`
}

// Config is the top-level configuration for rw.
type Config struct {
	UI         UIConfig         `yaml:"ui"`
	Navigation NavigationConfig `yaml:"navigation"`
	Compute    ComputeConfig    `yaml:"compute"`
	Watch      WatchConfig      `yaml:"watch"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			MinimapEntries:  DefaultMinimapEntries,
			TimelineEntries: DefaultTimelineEntries,
			MinimapWidth:    DefaultMinimapWidth,
		},
		Navigation: NavigationConfig{Cyclic: true},
		Compute: ComputeConfig{
			Timeout: DefaultComputeTimeout,
			Queue:   DefaultComputeQueue,
		},
		Watch: WatchConfig{Debounce: DefaultWatchDebounce},
	}
}

// Normalize replaces out-of-range values with defaults.
func (c *Config) Normalize() {
	if c.UI.MinimapEntries < MinEntries {
		c.UI.MinimapEntries = DefaultMinimapEntries
	}
	if c.UI.TimelineEntries < MinEntries {
		c.UI.TimelineEntries = DefaultTimelineEntries
	}
	if c.UI.MinimapWidth < MinMinimapWidth {
		c.UI.MinimapWidth = DefaultMinimapWidth
	}
	if c.Compute.Timeout < 0 {
		c.Compute.Timeout = DefaultComputeTimeout
	}
	if c.Compute.Queue < 1 {
		c.Compute.Queue = DefaultComputeQueue
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultWatchDebounce
	}
}

// ApplyEnv applies environment overrides. Unparseable or out-of-range
// values are ignored.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvMinimapEntries)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= MinEntries {
			c.UI.MinimapEntries = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvComputeTimeout)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Compute.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvForcePoll)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch.Poll = b
		}
	}
}

// ConfigDir returns the XDG config directory for rw.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for rw.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "rw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, "rw")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path, then applies environment overrides.
// A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.Normalize()
	cfg.ApplyEnv()
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

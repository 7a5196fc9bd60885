// Package datasource finds and opens region sources. A task can live in a
// JSONL file or in a SQLite database; a directory may hold several of each.
package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the kind of region source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database with regions and keyframes tables.
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSONL is a file with one region per line.
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

var sqliteMagic = []byte("SQLite format 3\x00")

// DataSource is one candidate region source.
type DataSource struct {
	Type            SourceType `json:"type"`
	Path            string     `json:"path"`
	Priority        int        `json:"priority"`
	ModTime         time.Time  `json:"mod_time"`
	Size            int64      `json:"size"`
	Valid           bool       `json:"valid"`
	ValidationError string     `json:"validation_error,omitempty"`
	RegionCount     int        `json:"region_count"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, regions=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.RegionCount, status)
}

// DetectSource classifies a single file. SQLite files are recognized by
// their header, so the extension does not matter for them.
func DetectSource(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", path)
	}

	src := DataSource{
		Type:     SourceTypeJSONL,
		Path:     path,
		Priority: PriorityJSONL,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}
	isDB, err := hasSQLiteHeader(path)
	if err != nil {
		return DataSource{}, err
	}
	if isDB {
		src.Type = SourceTypeSQLite
		src.Priority = PrioritySQLite
	}
	return src, nil
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	head := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false, nil
	}
	return bytes.Equal(head, sqliteMagic), nil
}

// DiscoveryOptions configures DiscoverSources.
type DiscoveryOptions struct {
	// Dir is searched for *.jsonl, *.db, *.sqlite and *.sqlite3 files.
	Dir string
	// ValidateAfterDiscovery opens every source and counts its regions.
	ValidateAfterDiscovery bool
	// IncludeInvalid keeps sources that failed validation.
	IncludeInvalid bool
	// Logger receives progress messages. Nil discards them.
	Logger func(msg string)
}

var sourceExts = map[string]bool{".jsonl": true, ".db": true, ".sqlite": true, ".sqlite3": true}

// DiscoverSources lists the region sources in a directory, newest first and
// by priority on equal times.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read task directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !sourceExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}
		src, err := DetectSource(filepath.Join(opts.Dir, name))
		if err != nil {
			logf(fmt.Sprintf("skipping %s: %v", name, err))
			continue
		}
		logf(fmt.Sprintf("found %s source: %s", src.Type, src.Path))
		sources = append(sources, src)
	}

	if opts.ValidateAfterDiscovery {
		kept := sources[:0]
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil {
				logf(fmt.Sprintf("validation failed for %s: %v", sources[i].Path, err))
			}
			if sources[i].Valid || opts.IncludeInvalid {
				kept = append(kept, sources[i])
			}
		}
		sources = kept
	}

	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}

// ValidateSource loads the source and records whether it holds at least one
// region.
func ValidateSource(src *DataSource) error {
	regions, err := LoadFromSource(*src)
	if err == nil && len(regions) == 0 {
		err = fmt.Errorf("no regions")
	}
	src.Valid = err == nil
	src.RegionCount = len(regions)
	if err != nil {
		src.ValidationError = err.Error()
	}
	return err
}

// SelectBestSource returns the first valid source of an ordered list.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid source among %d candidates", len(sources))
}

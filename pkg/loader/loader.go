// Package loader reads region lists from JSONL task files.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// TaskDirEnvVar overrides the directory searched for task files.
const TaskDirEnvVar = "RW_TASK_DIR"

// PreferredJSONLNames defines the lookup order for task files in a directory.
var PreferredJSONLNames = []string{"regions.jsonl", "task.jsonl"}

// GetTaskDir returns the directory to search for task files. RW_TASK_DIR
// wins; otherwise dir, or the working directory when dir is empty.
func GetTaskDir(dir string) (string, error) {
	if envDir := os.Getenv(TaskDirEnvVar); envDir != "" {
		return envDir, nil
	}
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return wd, nil
}

// FindJSONLPath locates the task file in dir. Preferred names come first,
// then the first non-empty .jsonl file. Backups are skipped.
func FindJSONLPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read task directory: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no task JSONL file found in %s", dir)
	}

	nonEmpty := func(name string) (string, bool) {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		return path, err == nil && info.Size() > 0
	}
	for _, preferred := range PreferredJSONLNames {
		for _, name := range candidates {
			if name == preferred {
				if path, ok := nonEmpty(name); ok {
					return path, nil
				}
			}
		}
	}
	for _, name := range candidates {
		if path, ok := nonEmpty(name); ok {
			return path, nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

// DefaultMaxBufferSize is the longest line the parser accepts (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures ParseRegionsWithOptions.
type ParseOptions struct {
	// WarningHandler receives one message per skipped line. Nil prints to
	// stderr.
	WarningHandler func(string)

	// BufferSize caps the line length. Longer lines are skipped.
	BufferSize int

	// Filter drops regions it returns false for.
	Filter func(*model.Region) bool
}

// LoadRegionsFromFile reads regions from a JSONL file.
func LoadRegionsFromFile(path string) ([]*model.Region, error) {
	return LoadRegionsFromFileWithOptions(path, ParseOptions{})
}

// LoadRegionsFromFileWithOptions reads regions from a JSONL file.
func LoadRegionsFromFileWithOptions(path string, opts ParseOptions) ([]*model.Region, error) {
	defer metrics.Timer(metrics.RegionLoad)()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no task file at %s", path)
		}
		return nil, fmt.Errorf("failed to open task file: %w", err)
	}
	defer file.Close()
	return ParseRegionsWithOptions(file, opts)
}

// ParseRegions parses JSONL content into regions.
func ParseRegions(r io.Reader) ([]*model.Region, error) {
	return ParseRegionsWithOptions(r, ParseOptions{})
}

// ParseRegionsWithOptions parses one region per line. Blank lines are
// ignored; malformed or invalid lines are skipped with a warning. A UTF-8
// BOM on the first line is stripped.
func ParseRegionsWithOptions(r io.Reader, opts ParseOptions) ([]*model.Region, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	var regions []*model.Region
	seen := make(map[string]int)
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading task stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var region model.Region
		if err := json.Unmarshal(line, &region); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if err := region.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid region on line %d: %v", lineNum, err))
			continue
		}
		if prev, dup := seen[region.ID]; dup {
			warn(fmt.Sprintf("skipping duplicate region %s on line %d (first on line %d)", region.ID, lineNum, prev))
			continue
		}
		if opts.Filter != nil && !opts.Filter(&region) {
			continue
		}
		seen[region.ID] = lineNum
		regions = append(regions, &region)
	}
	return regions, nil
}

// WriteRegions writes regions as JSONL.
func WriteRegions(w io.Writer, regions []*model.Region) error {
	enc := json.NewEncoder(w)
	for _, r := range regions {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding region %s: %w", r.ID, err)
		}
	}
	return nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}

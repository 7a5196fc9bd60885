//go:build ignore

// generate_testdata.go creates standard region datasets for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.jsonl   (40 regions)
//	testdata/benchmark/medium.jsonl  (1000 regions)
//	testdata/benchmark/large.jsonl   (10000 regions)
//	testdata/benchmark/large.db      (same regions as large.jsonl, SQLite)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/regionwork/internal/datasource"
	"github.com/vanderheijden86/regionwork/pkg/testutil"
)

type datasetSpec struct {
	name   string
	tracks int
	parts  int
	sqlite bool
}

var datasets = []datasetSpec{
	{"small", 5, 4, false},
	{"medium", 50, 10, false},
	{"large", 250, 20, true},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.tracks*1000 + ds.parts) // Reproducible per-size
		regions := testutil.New(cfg).Tracks(ds.tracks, ds.parts)
		fmt.Printf("Generating %s dataset (%d regions)...\n", ds.name, len(regions))

		jsonl := testutil.ToJSONL(regions)
		outputPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(outputPath, []byte(jsonl), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(jsonl))

		if ds.sqlite {
			dbPath := filepath.Join(outputDir, ds.name+".db")
			_ = os.Remove(dbPath)
			if err := datasource.SaveSQLite(dbPath, regions); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
				os.Exit(1)
			}
			fmt.Printf("  Written %s\n", dbPath)
		}
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

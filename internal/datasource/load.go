package datasource

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/regionwork/pkg/loader"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

// Load reads regions from path. A directory is searched for its best
// source; a file is read according to its detected type.
func Load(path string) ([]*model.Region, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadFromDir(path)
	}
	src, err := DetectSource(path)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(src)
}

// LoadFromDir loads the freshest valid source in dir.
func LoadFromDir(dir string) ([]*model.Region, error) {
	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		return nil, err
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return LoadFromSource(best)
}

// LoadFromSource reads a specific source.
func LoadFromSource(source DataSource) ([]*model.Region, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRegions()
	case SourceTypeJSONL:
		return loader.LoadRegionsFromFileWithOptions(source.Path, loader.ParseOptions{
			WarningHandler: func(string) {},
		})
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// LoadResult holds the regions read from one path.
type LoadResult struct {
	Path    string
	Regions []*model.Region
}

// LoadAll reads several paths concurrently. Results keep the order of
// paths; the first failure cancels the rest.
func LoadAll(ctx context.Context, paths []string) ([]LoadResult, error) {
	results := make([]LoadResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			regions, err := Load(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			results[i] = LoadResult{Path: path, Regions: regions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Merge concatenates results, dropping regions whose id was already seen.
func Merge(results []LoadResult) []*model.Region {
	var out []*model.Region
	seen := make(map[string]bool)
	for _, res := range results {
		for _, r := range res.Regions {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

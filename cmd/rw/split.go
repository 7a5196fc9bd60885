package main

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/regionwork/pkg/audio"
	"github.com/vanderheijden86/regionwork/pkg/compute"
	"github.com/vanderheijden86/regionwork/pkg/config"
)

// maxParallelSplits bounds the files decoded at once.
const maxParallelSplits = 4

type splitReport struct {
	File     string                 `json:"file"`
	Samples  int                    `json:"samples"`
	Channels []audio.ChannelSummary `json:"channels"`
}

// runSplit decodes each PCM16 file, splits it into channels on the worker
// and writes one summary per file as JSON. Reports keep argument order.
func runSplit(ctx context.Context, w io.Writer, cfg config.Config, files []string, channels int) error {
	if len(files) == 0 {
		return fmt.Errorf("-split needs at least one PCM16 file")
	}

	splitter := audio.NewSplitter(
		compute.WithTimeout(cfg.Compute.Timeout),
		compute.WithQueue(cfg.Compute.Queue),
	)
	defer splitter.Close()

	reports := make([]splitReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSplits)
	for i, file := range files {
		g.Go(func() error {
			samples, err := audio.ReadPCM16File(file)
			if err != nil {
				return err
			}
			chans, err := splitter.Split(ctx, samples, channels)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			reports[i] = splitReport{File: file, Samples: len(samples), Channels: audio.Summarize(chans)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

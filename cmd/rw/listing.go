package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanderheijden86/regionwork/pkg/config"
	"github.com/vanderheijden86/regionwork/pkg/minimap"
	"github.com/vanderheijden86/regionwork/pkg/task"
)

// newController returns a minimap controller over the task's regions, scaled
// to width cells.
func newController(t *task.Task, cfg config.Config, width int) *minimap.Controller {
	c := minimap.NewController(minimap.NewWindow(cfg.UI.MinimapEntries, cfg.UI.MinimapBackfill))
	regions := t.Regions()
	c.SetRegions(regions)
	c.SetScale(float64(width), minimap.TimelineLength(regions))
	return c
}

// printListing writes the minimap window as plain text, one region per line
// followed by its lifespan segments.
func printListing(w io.Writer, t *task.Task, cfg config.Config, regionID string) error {
	if regionID != "" && selectDeepLink(t, regionID) == nil {
		return fmt.Errorf("region %s not found", regionID)
	}
	width := cfg.UI.MinimapWidth
	c := newController(t, cfg, width)
	entries := c.Entries()

	fmt.Fprintf(w, "%s: %d regions, %d selected\n", t.Name(), t.Len(), t.SelectionCount())
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no regions")
		return err
	}
	fmt.Fprintf(w, "minimap rows %d-%d\n", c.Top()+1, c.Top()+len(entries))

	idW := 0
	for _, e := range entries {
		idW = max(idW, len(e.ID))
	}
	for _, e := range entries {
		marker := " "
		if e.Selected {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %-*s |%s| %s\n", marker, idW, e.ID, string(minimap.Cells(e, width)), formatSegments(e.Lifespans))
	}
	return nil
}

func formatSegments(segs []minimap.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		p := fmt.Sprintf("%d-%d", s.StartFrame, s.EndFrame)
		if s.Open {
			p += "+"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

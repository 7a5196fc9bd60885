package main

import (
	"fmt"

	"github.com/vanderheijden86/regionwork/pkg/config"
	"github.com/vanderheijden86/regionwork/pkg/minimap"
	"github.com/vanderheijden86/regionwork/pkg/task"
)

// exportSnapshot writes the minimap window to out as SVG or PNG.
func exportSnapshot(t *task.Task, cfg config.Config, regionID, out string) error {
	if regionID != "" && selectDeepLink(t, regionID) == nil {
		return fmt.Errorf("region %s not found", regionID)
	}
	length := minimap.TimelineLength(t.Regions())
	c := newController(t, cfg, cfg.UI.MinimapWidth)
	return minimap.SaveSnapshot(minimap.SnapshotOptions{
		Path:    out,
		Title:   fmt.Sprintf("%s (%d regions)", t.Name(), t.Len()),
		Length:  length,
		Entries: c.Entries(),
	})
}

package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/regionwork/pkg/minimap"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

const (
	timelineIDWidth    = 22
	timelineFrameWidth = 8
)

// rowMarker is the gutter glyph of a timeline row.
func rowMarker(r *model.Region) string {
	switch {
	case r.Selected:
		return "▶"
	case r.InSelection:
		return "+"
	default:
		return " "
	}
}

// renderLabels colors person and action labels apart.
func (m Model) renderLabels(r *model.Region, width int) string {
	if r.IsUnlabeled() {
		return m.theme.Unlabeled.Render(truncate("(unlabeled)", width))
	}
	parts := make([]string, 0, len(r.Labels))
	used := 0
	for _, l := range r.Labels {
		l = truncate(l, max(width-used, 0))
		if l == "" {
			break
		}
		used += runewidth.StringWidth(l) + 1
		if strings.HasSuffix(l, model.PersonLabelSuffix) {
			parts = append(parts, m.theme.Person.Render(l))
		} else {
			parts = append(parts, m.theme.Action.Render(l))
		}
	}
	return strings.Join(parts, " ")
}

// renderTimelineRow renders one region as "marker id start labels".
func (m Model) renderTimelineRow(r *model.Region, width int) string {
	start := "-"
	if f, ok := r.StartFrame(); ok {
		start = fmt.Sprintf("%d", f)
	}
	id := m.theme.Renderer.NewStyle().Foreground(RegionFg(r.Color)).
		Render(fit(r.ID, timelineIDWidth))
	labelsW := max(width-timelineIDWidth-timelineFrameWidth-4, 8)
	row := rowMarker(r) + " " + id + " " +
		m.theme.MutedText.Render(fit(start, timelineFrameWidth)) + " " +
		m.renderLabels(r, labelsW)
	switch {
	case r.Selected:
		return m.theme.Selected.Render(row)
	case r.InSelection:
		return m.theme.Marked.Render(row)
	}
	return " " + row
}

// renderTimeline renders the visible window of timeline rows around the
// highlighted row.
func (m Model) renderTimeline(regions []*model.Region, width int) string {
	if len(regions) == 0 {
		return m.theme.MutedText.Render("no regions in this task")
	}
	row := m.task.SelectedRow()
	if row < 0 {
		row = minimap.SelectedIndex(regions)
	}
	top, end := m.rows.Bounds(len(regions), row)
	lines := make([]string, 0, end-top+1)
	for _, r := range regions[top:end] {
		lines = append(lines, m.renderTimelineRow(r, width))
	}
	if end < len(regions) {
		lines = append(lines, m.theme.MutedText.Render(fmt.Sprintf("  … %d more", len(regions)-end)))
	}
	return joinLines(lines)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

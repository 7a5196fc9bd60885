// Package ui is the terminal front-end of rw: the timeline rows of a task,
// the minimap strip, toasts and the help overlay.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/regionwork/internal/datasource"
	"github.com/vanderheijden86/regionwork/pkg/config"
	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/minimap"
	"github.com/vanderheijden86/regionwork/pkg/model"
	"github.com/vanderheijden86/regionwork/pkg/nav"
	"github.com/vanderheijden86/regionwork/pkg/task"
	"github.com/vanderheijden86/regionwork/pkg/watcher"
)

// errNoKeyframes is reported when toggling a region without keyframes.
var errNoKeyframes = errors.New("region has no keyframes")

// FileChangedMsg is sent when the watched task file changes.
type FileChangedMsg struct{}

// regionsLoadedMsg carries the result of a reload.
type regionsLoadedMsg struct {
	regions []*model.Region
	err     error
}

// bulkStepMsg runs the next step of the bulk selection in progress.
type bulkStepMsg struct{}

func bulkStepCmd() tea.Msg {
	return bulkStepMsg{}
}

// Model is the bubbletea model of the region navigator.
type Model struct {
	cfg     config.Config
	task    *task.Task
	nav     *nav.Navigator
	minimap *minimap.Controller
	rows    *minimap.Window
	theme   Theme
	toasts  *toasts

	help     viewport.Model
	showHelp bool

	width  int
	height int

	bulk       *nav.Bulk
	bulkCancel context.CancelFunc

	path    string
	watcher *watcher.Watcher

	copyText func(string) error
}

// NewModel returns a model over t.
func NewModel(t *task.Task, cfg config.Config) Model {
	cfg.Normalize()
	nt := &toasts{}
	m := Model{
		cfg:  cfg,
		task: t,
		nav: nav.New(t,
			nav.WithPositionSetter(t),
			nav.WithRowHighlighter(t),
			nav.WithNotifier(nt),
			nav.WithCyclic(cfg.Navigation.Cyclic),
		),
		minimap:  minimap.NewController(minimap.NewWindow(cfg.UI.MinimapEntries, cfg.UI.MinimapBackfill)),
		rows:     minimap.NewWindow(cfg.UI.TimelineEntries, true),
		theme:    DefaultTheme(lipgloss.DefaultRenderer()),
		toasts:   nt,
		copyText: clipboard.WriteAll,
		width:    80,
		height:   24,
	}
	m.sync()
	return m
}

// WithWatcher reloads the task from path whenever w reports a change.
func (m Model) WithWatcher(w *watcher.Watcher, path string) Model {
	m.watcher = w
	m.path = path
	return m
}

// Navigator returns the model's navigator.
func (m Model) Navigator() *nav.Navigator {
	return m.nav
}

// SelectByID selects the region whose id before "#" equals id.
func (m Model) SelectByID(id string) bool {
	r := m.task.FindByBaseID(id)
	if r == nil {
		debug.Log("deep link: no region %q", id)
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Message: fmt.Sprintf("region %s not found", id)})
		return false
	}
	ok := m.nav.SelectRegion(r) != nil
	m.sync()
	return ok
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := m.toasts.expireCmds()
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

func waitForChange(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func reloadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		regions, err := datasource.Load(path)
		return regionsLoadedMsg{regions: regions, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	cmds := append(m.toasts.expireCmds(), cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.showHelp {
			m.help = newHelpViewport(m.width, m.height)
		}
		m.sync()
		return m, nil

	case toastExpiredMsg:
		m.toasts.expire(msg.seq)
		return m, nil

	case bulkStepMsg:
		return m.stepBulk()

	case FileChangedMsg:
		if m.watcher == nil {
			return m, nil
		}
		return m, tea.Batch(reloadCmd(m.path), waitForChange(m.watcher))

	case regionsLoadedMsg:
		m.applyReload(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Help), key.Matches(msg, keys.Quit):
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Quit) {
		m.cancelBulk()
		return m, tea.Quit
	}
	if m.bulk != nil {
		if key.Matches(msg, keys.Cancel) {
			m.cancelBulk()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		m.nav.Next()
	case key.Matches(msg, keys.Previous):
		m.nav.Previous()
	case key.Matches(msg, keys.Down):
		m.nav.SelectNext(nil, false)
	case key.Matches(msg, keys.Up):
		m.nav.SelectPrevious(nil, false)
	case key.Matches(msg, keys.NextInTrack):
		m.nav.NextInTrack()
	case key.Matches(msg, keys.PreviousInTrack):
		m.nav.PreviousInTrack()
	case key.Matches(msg, keys.NextUnlabeled):
		m.nav.NextUnlabeled()
	case key.Matches(msg, keys.PrevUnlabeled):
		m.nav.PreviousUnlabeled()
	case key.Matches(msg, keys.TrackOnward):
		return m.startBulk(func(ctx context.Context) (*nav.Bulk, error) {
			return m.nav.SameTrackingBulk(ctx, m.nav.Selected(), true, nil)
		})
	case key.Matches(msg, keys.Track):
		return m.startBulk(func(ctx context.Context) (*nav.Bulk, error) {
			return m.nav.SameTrackingBulk(ctx, m.nav.Selected(), false, nil)
		})
	case key.Matches(msg, keys.SelectAll):
		return m.startBulk(func(ctx context.Context) (*nav.Bulk, error) {
			return m.nav.AllBulk(ctx, nil), nil
		})
	case key.Matches(msg, keys.Copy):
		m.copySelected()
	case key.Matches(msg, keys.ToggleKeyframe):
		m.toggleLastKeyframe()
	case key.Matches(msg, keys.Grow):
		m.minimap.SetDisplayEntries(m.minimap.Window().DisplayEntries() + 1)
	case key.Matches(msg, keys.Shrink):
		if !m.minimap.SetDisplayEntries(m.minimap.Window().DisplayEntries() - 1) {
			m.toasts.Notify(nav.Notice{Level: nav.NoticeInfo, Message: fmt.Sprintf("minimap shows at least %d rows", minimap.MinDisplayEntries)})
		}
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		m.help = newHelpViewport(m.width, m.height)
		return m, nil
	}
	m.sync()
	return m, nil
}

// startBulk begins a bulk selection. Steps run one per message so the
// strip redraws while the selection grows.
func (m Model) startBulk(begin func(context.Context) (*nav.Bulk, error)) (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	b, err := begin(ctx)
	if err != nil {
		cancel()
		debug.Log("bulk select: %v", err)
		return m, nil
	}
	m.bulk, m.bulkCancel = b, cancel
	return m, bulkStepCmd
}

func (m Model) stepBulk() (Model, tea.Cmd) {
	if m.bulk == nil {
		return m, nil
	}
	if m.bulk.Step() {
		m.minimap.Refresh()
		return m, bulkStepCmd
	}
	res := m.bulk.Result()
	debug.Log("bulk select %q %s: %d/%d", res.Title, res.Outcome, res.Processed, res.Total)
	m.bulkCancel()
	m.bulk, m.bulkCancel = nil, nil
	m.sync()
	return m, nil
}

// cancelBulk cancels the bulk selection; the next step restores the
// previous selection.
func (m Model) cancelBulk() {
	if m.bulkCancel != nil {
		m.bulkCancel()
	}
}

func (m Model) copySelected() {
	r := m.nav.Selected()
	if r == nil {
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Message: "no region selected"})
		return
	}
	if err := m.copyText(r.ID); err != nil {
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Title: "clipboard", Message: err.Error()})
		return
	}
	m.toasts.Notify(nav.Notice{Level: nav.NoticeInfo, Message: "copied " + r.ID})
}

// toggleLastKeyframe flips whether the selected region's lifespan stays open.
// A failed update is reported and left as is; the next reload resyncs.
func (m Model) toggleLastKeyframe() {
	r := m.nav.Selected()
	if r == nil {
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Message: "no region selected"})
		return
	}
	err := m.task.Apply(r.ID, func(r *model.Region) error {
		if len(r.Sequence) == 0 {
			return errNoKeyframes
		}
		last := &r.Sequence[len(r.Sequence)-1]
		last.Enabled = !last.Enabled
		return nil
	})
	if err != nil {
		debug.Log("toggle keyframe: %v", err)
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Title: "edit failed", Message: err.Error()})
	}
}

func (m Model) applyReload(msg regionsLoadedMsg) {
	if msg.err != nil {
		debug.Log("reload %s: %v", m.path, msg.err)
		m.toasts.Notify(nav.Notice{Level: nav.NoticeError, Title: "reload failed", Message: msg.err.Error()})
		return
	}
	m.cancelBulk()
	before := m.task.Snapshot()
	m.task.Replace(msg.regions)
	diff := datasource.Diff(before, m.task.Snapshot())
	if !diff.Empty() {
		m.toasts.Notify(nav.Notice{Level: nav.NoticeInfo, Title: "reloaded", Message: diff.Summary()})
	}
	m.sync()
}

// stripWidth is the minimap width in cells for the current terminal.
func (m Model) stripWidth() int {
	return max(min(m.cfg.UI.MinimapWidth, m.width-4), 1)
}

// sync pushes the task's regions and the strip scale into the minimap.
func (m Model) sync() {
	regions := m.task.Regions()
	m.minimap.SetRegions(regions)
	m.minimap.SetScale(float64(m.stripWidth()), minimap.TimelineLength(regions))
}

// View implements tea.Model.
func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	if m.showHelp {
		return joinLines([]string{
			m.renderHeader(),
			m.help.View(),
			m.theme.MutedText.Render("esc close • ↑/↓ scroll"),
		})
	}

	regions := m.task.Regions()
	parts := []string{
		m.renderHeader(),
		m.renderTimeline(regions, m.width),
		"",
		m.renderMinimap(len(regions)),
	}
	if m.bulk != nil {
		res := m.bulk.Result()
		parts = append(parts, m.theme.Progress.Render(
			fmt.Sprintf("selecting %s %d/%d (esc to cancel)", res.Title, res.Processed, res.Total)))
	}
	if ts := m.renderToasts(); ts != "" {
		parts = append(parts, ts)
	}
	parts = append(parts, m.theme.MutedText.Render(truncate(shortHelp(keys.ShortHelp()), max(m.width, 10))))
	return joinLines(parts)
}

func (m Model) renderHeader() string {
	info := fmt.Sprintf("%s · frame %d · %d regions · %d selected",
		m.task.Name(), m.task.Position(), m.task.Len(), m.task.SelectionCount())
	return m.theme.Header.Render("rw") + " " + m.theme.Base.Render(truncate(info, max(m.width-6, 10)))
}

func (m Model) renderMinimap(total int) string {
	entries := m.minimap.Entries()
	if len(entries) == 0 {
		return m.theme.MutedText.Render("minimap: empty")
	}
	top := m.minimap.Top()
	title := fmt.Sprintf("minimap rows %d-%d of %d", top+1, top+len(entries), total)
	var sb strings.Builder
	sb.WriteString(m.theme.MutedText.Render(title))
	sb.WriteByte('\n')
	sb.WriteString(minimap.RenderStrip(entries, m.stripWidth()))
	return sb.String()
}

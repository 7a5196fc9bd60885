package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form, in accessible mode when stdin is not a terminal.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// wizardValues holds the form fields as the user typed them.
type wizardValues struct {
	minimapEntries  string
	timelineEntries string
	minimapWidth    string
	backfill        bool
	cyclic          bool
	timeout         string
	poll            bool
}

func valuesFrom(cfg Config) wizardValues {
	return wizardValues{
		minimapEntries:  strconv.Itoa(cfg.UI.MinimapEntries),
		timelineEntries: strconv.Itoa(cfg.UI.TimelineEntries),
		minimapWidth:    strconv.Itoa(cfg.UI.MinimapWidth),
		backfill:        cfg.UI.MinimapBackfill,
		cyclic:          cfg.Navigation.Cyclic,
		timeout:         cfg.Compute.Timeout.String(),
		poll:            cfg.Watch.Poll,
	}
}

// apply copies validated values onto cfg.
func (v wizardValues) apply(cfg Config) (Config, error) {
	var err error
	if cfg.UI.MinimapEntries, err = parseAtLeast(v.minimapEntries, MinEntries); err != nil {
		return cfg, fmt.Errorf("minimap entries: %w", err)
	}
	if cfg.UI.TimelineEntries, err = parseAtLeast(v.timelineEntries, MinEntries); err != nil {
		return cfg, fmt.Errorf("timeline entries: %w", err)
	}
	if cfg.UI.MinimapWidth, err = parseAtLeast(v.minimapWidth, MinMinimapWidth); err != nil {
		return cfg, fmt.Errorf("minimap width: %w", err)
	}
	if cfg.Compute.Timeout, err = parseTimeout(v.timeout); err != nil {
		return cfg, fmt.Errorf("compute timeout: %w", err)
	}
	cfg.UI.MinimapBackfill = v.backfill
	cfg.Navigation.Cyclic = v.cyclic
	cfg.Watch.Poll = v.poll
	return cfg, nil
}

func parseAtLeast(s string, least int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < least {
		return 0, fmt.Errorf("must be at least %d", least)
	}
	return n, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a duration (try 10s or 0)", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}

func atLeast(least int) func(string) error {
	return func(s string) error {
		_, err := parseAtLeast(s, least)
		return err
	}
}

// RunWizard asks for every setting, starting from cfg, and returns the
// edited configuration. Saving is left to the caller.
func RunWizard(cfg Config) (Config, error) {
	fmt.Println("rw setup")
	fmt.Println("────────")

	v := valuesFrom(cfg)
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimap rows").
				Description("Regions shown in the overview strip").
				Value(&v.minimapEntries).
				Validate(atLeast(MinEntries)),
			huh.NewInput().
				Title("Timeline rows").
				Value(&v.timelineEntries).
				Validate(atLeast(MinEntries)),
			huh.NewInput().
				Title("Minimap width (cells)").
				Value(&v.minimapWidth).
				Validate(atLeast(MinMinimapWidth)),
			huh.NewConfirm().
				Title("Keep the minimap full near the end of the list?").
				Value(&v.backfill),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Wrap next/previous around the ends?").
				Value(&v.cyclic),
			huh.NewInput().
				Title("Worker timeout").
				Description("0 waits forever").
				Value(&v.timeout).
				Validate(func(s string) error {
					_, err := parseTimeout(s)
					return err
				}),
			huh.NewConfirm().
				Title("Poll the task file instead of using file events?").
				Value(&v.poll),
		),
	)
	if err := form.Run(); err != nil {
		return cfg, err
	}
	return v.apply(cfg)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/regionwork/internal/datasource"
	"github.com/vanderheijden86/regionwork/pkg/config"
	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/loader"
	"github.com/vanderheijden86/regionwork/pkg/metrics"
	"github.com/vanderheijden86/regionwork/pkg/model"
	"github.com/vanderheijden86/regionwork/pkg/task"
	"github.com/vanderheijden86/regionwork/pkg/ui"
	"github.com/vanderheijden86/regionwork/pkg/version"
	"github.com/vanderheijden86/regionwork/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/rw/config.yaml)")
	regionID := flag.String("region", "", "Select the region with this id (the part before '#') on start")
	splitFlag := flag.Bool("split", false, "Split interleaved PCM16 files given as arguments into channels")
	channels := flag.Int("channels", 2, "Channel count for -split")
	exportMinimap := flag.String("export-minimap", "", "Write a minimap snapshot (.svg or .png) and exit")
	setup := flag.Bool("setup", false, "Run the interactive configuration wizard")
	metricsFlag := flag.Bool("metrics", false, "Print timing metrics as JSON on exit")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: rw [options] [task-file-or-dir]")
		fmt.Println("       rw -split -channels N file.pcm [more.pcm...]")
		fmt.Println("\nA terminal navigator for timeline regions with a minimap overview.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if *setup {
		if err := runSetup(cfg, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *metricsFlag {
		defer func() {
			if err := metrics.WriteJSON(os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			}
		}()
	}

	if *splitFlag {
		if err := runSplit(context.Background(), os.Stdout, cfg, flag.Args(), *channels); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	path, err := resolveTaskPath(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	regions, err := datasource.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading regions: %v\n", err)
		os.Exit(1)
	}
	t := task.New(taskName(path), regions)

	if *exportMinimap != "" {
		if err := exportSnapshot(t, cfg, *regionID, *exportMinimap); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting minimap: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportMinimap)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := printListing(os.Stdout, t, cfg, *regionID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := ui.NewModel(t, cfg)
	if *regionID != "" {
		m.SelectByID(*regionID)
	}

	w, err := watcher.New(path,
		watcher.WithDebounce(cfg.Watch.Debounce),
		watcher.WithForcePoll(cfg.Watch.Poll),
	)
	if err == nil {
		if err := w.Start(context.Background()); err != nil {
			debug.Log("watcher: %v", err)
		} else {
			defer w.Stop()
			m = m.WithWatcher(w, path)
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running rw: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runSetup(cfg config.Config, path string) error {
	cfg, err := config.RunWizard(cfg)
	if err != nil {
		return err
	}
	if path != "" {
		err = config.SaveTo(cfg, path)
	} else {
		err = config.Save(cfg)
		path = config.ConfigPath()
	}
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// resolveTaskPath turns the command-line argument into the file to load
// and watch. A directory (or no argument) is searched for its best source.
func resolveTaskPath(arg string) (string, error) {
	if arg != "" {
		info, err := os.Stat(arg)
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return arg, nil
		}
	}
	dir, err := loader.GetTaskDir(arg)
	if err != nil {
		return "", err
	}
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		Dir:                    dir,
		ValidateAfterDiscovery: true,
		Logger:                 func(msg string) { debug.Log("%s", msg) },
	})
	if err != nil {
		return "", err
	}
	best, err := datasource.SelectBestSource(sources)
	if err != nil {
		return "", fmt.Errorf("no task file in %s: %w", dir, err)
	}
	debug.Log("using %s", best)
	return best.Path, nil
}

func taskName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// selectDeepLink selects the region named by id, if any.
func selectDeepLink(t *task.Task, id string) *model.Region {
	if id == "" {
		return nil
	}
	r := t.FindByBaseID(id)
	if r != nil && r.CanSelect() {
		r.Trigger(model.NewSelectEvent())
	}
	return r
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set RW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("RW_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

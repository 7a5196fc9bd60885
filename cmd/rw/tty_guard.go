package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal.
//
// Lipgloss/Termenv background detection can emit OSC/DSR control sequences to
// stdout. For invocations whose stdout is machine-read (version, help, split
// reports, exports) we set CI=1 early, which disables that probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args, os.Getenv("RW_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	for _, arg := range args {
		switch strings.TrimLeft(arg, "-") {
		case "version", "help", "split":
			return true
		}
		if strings.HasPrefix(strings.TrimLeft(arg, "-"), "export-minimap") {
			return true
		}
	}
	return false
}

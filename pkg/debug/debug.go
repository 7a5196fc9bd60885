// Package debug provides conditional debug logging for rw.
//
// Debug logging is enabled by setting the RW_DEBUG environment variable:
//
//	RW_DEBUG=1 rw task.jsonl 2>debug.log
//
// When disabled (default), all functions are no-ops. The TUI owns stderr's
// terminal, so cmd/rw redirects output with SetOutput when RW_DEBUG_FILE is set.
package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

const prefix = "[RW_DEBUG] "

var (
	enabled atomic.Bool
	logger  = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
)

func init() {
	if os.Getenv("RW_DEBUG") != "" {
		enabled.Store(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// SetOutput redirects debug output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func load() {
//	    defer debug.LogEnterExit("load")()
//	}
func LogEnterExit(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

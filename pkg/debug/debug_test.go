package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	was := Enabled()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetEnabled(was)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(false)
	Log("hidden %d", 1)
	LogTiming("hidden", time.Second)
	LogEnterExit("hidden")()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLog_EnabledWritesPrefixed(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(true)
	Log("lookup failed for %s", "id-1-1")
	out := buf.String()
	if !strings.Contains(out, "[RW_DEBUG]") || !strings.Contains(out, "lookup failed for id-1-1") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLogEnterExit(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(true)
	LogEnterExit("reload")()
	out := buf.String()
	if !strings.Contains(out, "-> reload") || !strings.Contains(out, "<- reload") {
		t.Errorf("unexpected output %q", out)
	}
}

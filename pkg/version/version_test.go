package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, "rw "+Version) {
		t.Errorf("String() = %q", got)
	}
}

// Package version reports the rw build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/regionwork/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// String returns the version with the module revision when the binary was
// built from a checkout.
func String() string {
	s := fmt.Sprintf("rw %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				s += " " + setting.Value[:7]
			}
		}
	}
	return s
}

// Package buildinfo contains build-time information embedded via ldflags
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Set at build time, for example:
// go build -ldflags "-X github.com/YoshitsuguKoike/kindred/internal/buildinfo.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = ""
)

// GetVersion returns the current version, with "dev" as default for development builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build information. The commit falls back to the VCS
// revision recorded by the Go toolchain.
func Get() Info {
	info := Info{
		Version:   GetVersion(),
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}
	return info
}

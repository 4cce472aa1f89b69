// Package version reports build metadata stamped in with -ldflags
package version

import "runtime/debug"

// BuildInfo is what /version returns
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// set with -X 'trendlens/internal/core/version.version=v0.3.0' and friends
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns build metadata for service
// an unstamped binary falls back to the vcs revision embedded by the toolchain
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	bi.Go = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}

// Package version reports what build is running
package version

import "runtime/debug"

// BuildInfo identifies a binary build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go,omitempty"`
}

// set with -ldflags "-X aarcnorm/internal/core/version.version=v0.3.0 -X ..."
var (
	version = "dev"
	commit  = ""
	date    = "unknown"
)

// Info returns the build info of service
// without ldflags the commit falls back to the vcs stamp of the go toolchain
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		bi.Go = info.GoVersion
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && bi.Commit == "":
				bi.Commit = s.Value
			case s.Key == "vcs.time" && bi.Date == "unknown":
				bi.Date = s.Value
			}
		}
	}
	if bi.Commit == "" {
		bi.Commit = "none"
	}
	return bi
}

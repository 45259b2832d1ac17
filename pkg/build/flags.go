// SPDX-License-Identifier: MIT
//
// Package build carries build metadata injected via -ldflags, e.g.
//
//	go build -ldflags "-X voicegrade/pkg/build.name=voicegrade \
//	  -X voicegrade/pkg/build.version=0.1.0"
//
// Development builds without flags fall back to sensible defaults.
package build

// Flags holds the injected build information.
type Flags struct {
	Name    string
	Version string
	Commit  string
	Time    string
}

var (
	name    string
	version string
	commit  string
	time    string
)

// Info returns the build information with defaults applied for
// anything the linker did not set.
func Info() Flags {
	f := Flags{Name: name, Version: version, Commit: commit, Time: time}
	if f.Name == "" {
		f.Name = "voicegrade"
	}
	if f.Version == "" {
		f.Version = "dev"
	}
	if f.Commit == "" {
		f.Commit = "unknown"
	}
	if f.Time == "" {
		f.Time = "unknown"
	}
	return f
}

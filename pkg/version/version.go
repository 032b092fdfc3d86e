// Package version reports build information for the nodata binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Version is set via ldflags on release builds.
var Version string

// Info describes the running binary.
type Info struct {
	Version  string `json:"version" yaml:"version"`
	Revision string `json:"revision" yaml:"revision"`
	Go       string `json:"go" yaml:"go"`
	Platform string `json:"platform" yaml:"platform"`
	Modified bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

var buildInfo = sync.OnceValue(func() Info {
	info := Info{
		Version:  Version,
		Revision: "unknown",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}

	return info
})

// Get returns the build information, read once.
func Get() Info {
	return buildInfo()
}

// Short returns the version, or the revision for development builds.
func (i Info) Short() string {
	if i.Version != "" {
		return i.Version
	}

	if i.Modified {
		return i.Revision + "-dirty"
	}

	return i.Revision
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s %s)", i.Short(), i.Revision, i.Go, i.Platform)
}

// Package version reports which build of netmeter is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Name is the program name shown in version output.
const Name = "netmeter"

// Set with -ldflags "-X github.com/j-veylop/netmeter/internal/version.Version=..."
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const shortCommitLen = 12

var (
	once          sync.Once
	readBuildInfo = debug.ReadBuildInfo
)

// resolve fills whatever ldflags left empty from the module build info that
// `go install` and `go build` embed.
func resolve() {
	once.Do(func() {
		info, ok := readBuildInfo()
		if ok {
			if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
				Version = info.Main.Version
			}

			settings := make(map[string]string, len(info.Settings))
			for _, s := range info.Settings {
				settings[s.Key] = s.Value
			}
			if Commit == "" {
				Commit = shortCommit(settings["vcs.revision"])
				if Commit != "" && settings["vcs.modified"] == "true" {
					Commit += "-dirty"
				}
			}
			if Date == "" {
				Date = settings["vcs.time"]
			}
		}

		if Version == "" {
			Version = "dev"
		}
		if Commit == "" {
			Commit = "unknown"
		}
		if Date == "" {
			Date = "unknown"
		}
	})
}

func shortCommit(rev string) string {
	if len(rev) > shortCommitLen {
		return rev[:shortCommitLen]
	}
	return rev
}

// Reset clears resolved values so they are computed again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the module version, or "dev".
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the VCS revision the binary was built from.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the commit time recorded at build.
func GetDate() string {
	resolve()
	return Date
}

// Info returns a one-line description of the build.
func Info() string {
	resolve()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s/%s)",
		Name, Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

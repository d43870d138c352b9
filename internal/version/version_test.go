package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()

	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	Reset()
	t.Cleanup(func() {
		readBuildInfo = orig
		Reset()
	})
}

func buildInfo(version string, settings map[string]string) *debug.BuildInfo {
	info := &debug.BuildInfo{Main: debug.Module{Path: "github.com/j-veylop/netmeter", Version: version}}
	for k, v := range settings {
		info.Settings = append(info.Settings, debug.BuildSetting{Key: k, Value: v})
	}
	return info
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
		wantDate    string
	}{
		{
			name:        "NoBuildInfo",
			wantVersion: "dev",
			wantCommit:  "unknown",
			wantDate:    "unknown",
		},
		{
			name:        "DevelBuild",
			info:        buildInfo("(devel)", nil),
			wantVersion: "dev",
			wantCommit:  "unknown",
			wantDate:    "unknown",
		},
		{
			name: "Installed",
			info: buildInfo("v1.2.3", map[string]string{
				"vcs.revision": "0123456789abcdef0123",
				"vcs.time":     "2024-05-01T10:00:00Z",
			}),
			wantVersion: "v1.2.3",
			wantCommit:  "0123456789ab",
			wantDate:    "2024-05-01T10:00:00Z",
		},
		{
			name: "DirtyTree",
			info: buildInfo("", map[string]string{
				"vcs.revision": "abc123",
				"vcs.modified": "true",
			}),
			wantVersion: "dev",
			wantCommit:  "abc123-dirty",
			wantDate:    "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.info)

			if got := GetVersion(); got != tt.wantVersion {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVersion)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}
			if got := GetDate(); got != tt.wantDate {
				t.Errorf("GetDate() = %q, want %q", got, tt.wantDate)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	withBuildInfo(t, buildInfo("v9.9.9", map[string]string{"vcs.revision": "fromvcs"}))
	Version, Commit, Date = "1.0.0", "release", "2024-01-01"

	if GetVersion() != "1.0.0" || GetCommit() != "release" || GetDate() != "2024-01-01" {
		t.Errorf("ldflags values were overwritten: %s %s %s", Version, Commit, Date)
	}
}

func TestInfo(t *testing.T) {
	withBuildInfo(t, nil)
	Version, Commit, Date = "1.0.0", "abc", "2024-01-01"

	info := Info()
	for _, want := range []string{Name, "1.0.0", "commit: abc", "built: 2024-01-01"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() = %q, want it to contain %q", info, want)
		}
	}
}

func TestReset(t *testing.T) {
	withBuildInfo(t, nil)
	_ = GetVersion()

	Reset()
	if Version != "" || Commit != "" || Date != "" {
		t.Error("Reset should clear resolved values")
	}
}

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/netmeter/internal/config"
	historylog "github.com/j-veylop/netmeter/internal/history"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

func newTestManager(t *testing.T, profiles ...models.Profile) *services.Manager {
	t.Helper()

	tmpDir := t.TempDir()
	mgr, err := services.NewManager(&config.Config{
		PortalURL:        "http://127.0.0.1:1/portal",
		DatabasePath:     filepath.Join(tmpDir, "test.db"),
		ProfilesPath:     filepath.Join(tmpDir, "profiles.json"),
		HistoryPath:      filepath.Join(tmpDir, "history.csv"),
		QuotaWarnPercent: 80,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	for _, p := range profiles {
		if err := mgr.SaveProfile(p.Name, p.Credentials); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}
	}
	return mgr
}

func creds(user, pass string) models.Credentials {
	return models.Credentials{Username: user, Password: pass}
}

func TestResolveCredentials(t *testing.T) {
	home := models.Profile{Name: "home", Credentials: creds("alice", "a")}
	work := models.Profile{Name: "work", Credentials: creds("bob", "b")}

	tests := []struct {
		name      string
		stored    []models.Profile
		profile   string
		username  string
		wantName  string
		wantUser  string
		wantErr   string
		unknownOK bool
	}{
		{name: "OneOff", username: "carol", wantUser: "carol"},
		{name: "SingleProfile", stored: []models.Profile{home}, wantName: "home", wantUser: "alice"},
		{name: "Named", stored: []models.Profile{home, work}, profile: "work", wantName: "work", wantUser: "bob"},
		{name: "NoProfiles", wantErr: "no profiles configured"},
		{name: "Ambiguous", stored: []models.Profile{home, work}, wantErr: "--profile"},
		{name: "Unknown", stored: []models.Profile{home}, profile: "cafe", wantErr: "cafe", unknownOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newTestManager(t, tt.stored...)

			name, c, err := resolveCredentials(mgr, tt.profile, tt.username, "pw")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
				}
				if tt.unknownOK && !errors.Is(err, services.ErrUnknownProfile) {
					t.Errorf("err = %v, want ErrUnknownProfile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || c.Username != tt.wantUser {
				t.Errorf("got (%q, %q), want (%q, %q)", name, c.Username, tt.wantName, tt.wantUser)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pct := 92.5
	avail := uint64(75 * report.BytesPerMB)

	rep := &report.UsageReport{
		Status:           report.StatusActive,
		Username:         "alice",
		DownloadBytes:    600 * report.BytesPerMB,
		UploadBytes:      325 * report.BytesPerMB,
		TotalBytes:       925 * report.BytesPerMB,
		Quota:            &report.QuotaInfo{TotalBytes: 1000 * report.BytesPerMB, AvailableBytes: &avail},
		QuotaBasis:       report.BasisTrafficQuota,
		QuotaPercentUsed: &pct,
		RenewalInstant:   now.Add(72 * time.Hour),
		TimeRemaining:    72 * time.Hour,
	}

	var buf bytes.Buffer
	renderReport(&buf, "home", rep, 80, now)
	out := buf.String()

	for _, want := range []string{
		"Usage Report", "home", "alice", "Active",
		"600.0 MB", "325.0 MB", "925.0 MB",
		"Total Traffic Quota", "1000.0 MB", "75.0 MB", "92.5%",
		"3 days from now", "3 days, 0 hours, 0 minutes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}
}

func TestRenderReport_QuotaReached(t *testing.T) {
	exceeded := uint64(2 * report.BytesPerMB)
	rep := &report.UsageReport{
		Status:          report.StatusQuotaReached,
		QuotaExceededBy: &exceeded,
	}

	var buf bytes.Buffer
	renderReport(&buf, "", rep, 80, time.Now())
	out := buf.String()

	for _, want := range []string{"Quota Reached", "Exceeded by", "2.0 MB", "unknown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Profile") {
		t.Error("one-off fetches have no profile row")
	}
}

func TestRenderHistory(t *testing.T) {
	records := []historylog.Record{{
		Timestamp:  time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local),
		Username:   "alice",
		Status:     "Active",
		DownloadMB: 1.5,
		UploadMB:   0.25,
		TotalMB:    1.75,
	}}

	var buf bytes.Buffer
	renderHistory(&buf, records)

	for _, want := range []string{"2024-03-01 08:30:00", "alice", "Active", "1.50", "0.25", "1.75"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestRenderSnapshots(t *testing.T) {
	pct := 42.0
	var buf bytes.Buffer
	renderSnapshots(&buf, []models.UsageSnapshot{
		{Timestamp: time.Now(), Username: "alice", Profile: "home", Status: "Active", TotalBytes: 3 * report.BytesPerMB, QuotaPercent: &pct},
		{Timestamp: time.Now(), Username: "bob", Status: "Quota Reached"},
	})

	for _, want := range []string{"alice", "home", "3.0 MB", "42.0%", "bob", "Quota Reached"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestRenderProfiles(t *testing.T) {
	pct := 10.0
	var buf bytes.Buffer
	renderProfiles(&buf,
		[]models.Profile{{Name: "home", Credentials: creds("alice", "secret")}},
		map[string]models.ProfileStatus{"home": {Status: "Active", TotalBytes: report.BytesPerMB, QuotaPercent: &pct}},
	)

	out := buf.String()
	for _, want := range []string{"home", "alice", "******", "Active", "1.0 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
	if strings.Contains(out, "secret") {
		t.Error("password must be masked")
	}
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Line", "hunter2\n", "hunter2"},
		{"CRLF", "hunter2\r\n", "hunter2"},
		{"NoNewline", "hunter2", "hunter2"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.input), &bytes.Buffer{})
			if err != nil {
				t.Fatalf("readPassword failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("readPassword() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{"fetch": false, "history": false, "profiles": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}

	fetch, _, err := root.Find([]string{"fetch"})
	if err != nil {
		t.Fatalf("Find(fetch) failed: %v", err)
	}
	for _, flag := range []string{"profile", "username", "password", "save"} {
		if fetch.Flags().Lookup(flag) == nil {
			t.Errorf("fetch is missing --%s", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "netmeter") {
		t.Errorf("version output = %q", out.String())
	}
}

package history

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/config"
	"github.com/j-veylop/netmeter/internal/db"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

var errSave = errors.New("disk full")

func newTestManager(t *testing.T) *services.Manager {
	t.Helper()
	mgr, _ := newTestManagerAt(t, t.TempDir())
	return mgr
}

// newTestManagerAt returns a manager whose database lives in tmpDir, along
// with the database path.
func newTestManagerAt(t *testing.T, tmpDir string) (*services.Manager, string) {
	t.Helper()

	cfg := &config.Config{
		PortalURL:        "http://127.0.0.1:1/portal",
		DatabasePath:     filepath.Join(tmpDir, "test.db"),
		ProfilesPath:     filepath.Join(tmpDir, "profiles.json"),
		HistoryPath:      filepath.Join(tmpDir, "history.csv"),
		QuotaWarnPercent: 80,
	}
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, cfg.DatabasePath
}

func selectedState(username string) *app.State {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetProfiles([]models.Profile{
		{Name: "home", Credentials: models.Credentials{Username: username, Password: "pw"}},
	})
	return state
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func TestModel_NoServices(t *testing.T) {
	m := New(selectedState("alice"), nil)
	m.SetSize(100, 40)

	msg := run(t, m, m.Init())
	if _, ok := msg.(historyErrorMsg); !ok {
		t.Fatalf("msg = %#v, want historyErrorMsg", msg)
	}
	if view := m.View(); !strings.Contains(view, "Services not initialized") {
		t.Errorf("view = %q", view)
	}
}

func TestModel_Empty(t *testing.T) {
	m := New(selectedState("alice"), newTestManager(t))
	m.SetSize(100, 40)

	run(t, m, m.Init())
	if view := m.View(); !strings.Contains(view, "No usage history yet") {
		t.Errorf("view = %q", view)
	}
}

func TestModel_WithData(t *testing.T) {
	mgr, dbPath := newTestManagerAt(t, t.TempDir())

	rep := &report.UsageReport{
		Status:        report.StatusActive,
		DownloadBytes: 3 * report.BytesPerMB,
		UploadBytes:   1 * report.BytesPerMB,
		TotalBytes:    4 * report.BytesPerMB,
	}
	if err := mgr.SaveHistory(rep, "alice"); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}
	seed, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to open DB: %v", err)
	}
	err = seed.InsertSnapshot(&models.UsageSnapshot{
		Timestamp:     time.Now().Add(-time.Hour),
		Username:      "alice",
		Status:        "Active",
		DownloadBytes: 30 * report.BytesPerMB,
		UploadBytes:   10 * report.BytesPerMB,
		TotalBytes:    40 * report.BytesPerMB,
	})
	if err != nil {
		t.Fatalf("Failed to seed DB: %v", err)
	}
	_ = seed.Close()

	m := New(selectedState("alice"), mgr)
	m.SetSize(120, 80)
	run(t, m, m.Init())

	if len(m.records) != 1 || len(m.daily) != 1 {
		t.Fatalf("records=%d daily=%d, want 1 and 1", len(m.records), len(m.daily))
	}
	if m.since.IsZero() {
		t.Error("since should be set from the first snapshot")
	}

	view := m.View()
	for _, want := range []string{"History: alice", "Tracking since", "Daily Consumption", "Saved Reports", "4.00", "Active", "40.0 MB"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestModel_ToggleRange(t *testing.T) {
	m := New(selectedState("alice"), newTestManager(t))
	m.SetSize(100, 40)
	run(t, m, m.Init())

	want := []models.TimeRange{models.TimeRange30Days, models.TimeRangeAllTime, models.TimeRange24Hours}
	for _, w := range want {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
		run(t, m, cmd)
		if m.timeRange != w {
			t.Errorf("timeRange = %v, want %v", m.timeRange, w)
		}
	}
}

func TestModel_Reloads(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.Msg
		reload bool
	}{
		{"SwitchToHistory", app.TabSwitchMsg{Tab: app.TabHistory}, true},
		{"SwitchElsewhere", app.TabSwitchMsg{Tab: app.TabUsage}, false},
		{"Saved", app.HistorySavedMsg{Username: "alice"}, true},
		{"SaveFailed", app.HistorySavedMsg{Err: errSave}, false},
		{"SameProfile", app.SelectedProfileChangedMsg{Name: "home"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(selectedState("alice"), newTestManager(t))
			run(t, m, m.Init())

			_, cmd := m.Update(tt.msg)
			if (cmd != nil) != tt.reload {
				t.Errorf("reload = %v, want %v", cmd != nil, tt.reload)
			}
		})
	}
}

func TestModel_ReloadOnProfileChange(t *testing.T) {
	state := selectedState("alice")
	m := New(state, newTestManager(t))
	run(t, m, m.Init())

	state.SetProfiles([]models.Profile{
		{Name: "home", Credentials: models.Credentials{Username: "alice"}},
		{Name: "work", Credentials: models.Credentials{Username: "bob"}},
	})
	state.SetSelectedProfile("work")

	_, cmd := m.Update(app.SelectedProfileChangedMsg{Name: "work"})
	if cmd == nil {
		t.Fatal("changing the profile should reload")
	}
	run(t, m, cmd)
	if m.username != "bob" {
		t.Errorf("username = %q, want bob", m.username)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

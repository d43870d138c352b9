// Package history provides the history tab: saved usage rows and the daily
// consumption chart.
package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/netmeter/internal/app"
	historylog "github.com/j-veylop/netmeter/internal/history"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/services"
)

const recordLimit = 50

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	ToggleRange key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// historyLoadedMsg is sent when history data is loaded.
type historyLoadedMsg struct {
	records  []historylog.Record
	since    time.Time
	daily    []models.DailyUsagePoint
	username string
	rng      models.TimeRange
}

// historyErrorMsg is sent when there's an error loading history.
type historyErrorMsg struct {
	err string
}

// Model represents the history tab state.
type Model struct {
	lastRefresh time.Time
	since       time.Time
	state       *app.State
	services    *services.Manager
	errorMsg    string
	username    string
	records     []historylog.Record
	daily       []models.DailyUsagePoint
	viewport    viewport.Model
	keys        keyMap
	width       int
	height      int
	timeRange   models.TimeRange
	loading     bool
	loaded      bool
}

// New creates a new history model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:     state,
		services:  svc,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeRange: models.TimeRange7Days,
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// selectedUsername is the portal login of the selected profile; the chart is
// keyed by it.
func (m *Model) selectedUsername() string {
	p, ok := m.state.GetProfile(m.state.GetSelectedProfile())
	if !ok {
		return ""
	}
	return p.Username
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return m.loadHistoryCmd(m.selectedUsername(), m.timeRange)
}

// loadHistoryCmd reads the history file and the daily series for username.
func (m *Model) loadHistoryCmd(username string, rng models.TimeRange) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		if svc == nil {
			return historyErrorMsg{err: "Services not initialized"}
		}

		records, err := svc.History(recordLimit)
		if err != nil {
			return historyErrorMsg{err: err.Error()}
		}

		var daily []models.DailyUsagePoint
		var since time.Time
		if username != "" {
			daily, err = svc.DailyUsage(username, rng)
			if err != nil {
				return historyErrorMsg{err: err.Error()}
			}
			since, err = svc.TrackingSince(username)
			if err != nil {
				return historyErrorMsg{err: err.Error()}
			}
		}

		return historyLoadedMsg{records: records, daily: daily, since: since, username: username, rng: rng}
	}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.records = msg.records
		m.daily = msg.daily
		m.since = msg.since
		m.username = msg.username
		m.timeRange = msg.rng
		m.loading = false
		m.loaded = true
		m.lastRefresh = time.Now()
		m.errorMsg = ""

	case historyErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		return m, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  fmt.Sprintf("History error: %s", msg.err),
				Duration: app.LongNotificationDuration,
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			return m, m.reload()
		}

	case app.HistorySavedMsg:
		if msg.Err == nil {
			return m, m.reload()
		}

	case app.ReportFetchedMsg, app.SelectedProfileChangedMsg, app.ProfilesLoadedMsg:
		if !m.loading && (m.username != m.selectedUsername() || !m.loaded) {
			return m, m.reload()
		}

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.loading = true
		return m.loadHistoryCmd(m.selectedUsername(), m.timeRange.Next())

	case key.Matches(msg, m.keys.Refresh):
		return m.reload()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}

// Package usage provides the usage tab: the profile list and the report card
// for the selected profile.
package usage

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/ui/components"
	"github.com/j-veylop/netmeter/internal/ui/styles"
)

// keyMap defines the key bindings specific to the usage tab.
type keyMap struct {
	NextProfile  key.Binding
	PrevProfile  key.Binding
	FirstProfile key.Binding
	LastProfile  key.Binding
	Fetch        key.Binding
	Save         key.Binding
}

// defaultKeyMap returns the default key bindings for the usage tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextProfile: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next profile"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev profile"),
		),
		FirstProfile: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first profile"),
		),
		LastProfile: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last profile"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("enter", "f"),
			key.WithHelp("enter/f", "fetch usage"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save to history"),
		),
	}
}

// Model represents the usage tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	viewport viewport.Model
	spinner  spinner.Model
	bar      components.UsageBar
	now      func() time.Time
	warn     float64
	width    int
	height   int
}

// New creates a new usage model. warn is the percent above which usage is
// highlighted.
func New(state *app.State, commands *app.Commands, warn float64) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.FocusedStyle

	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		spinner:  s,
		bar:      components.NewUsageBar(warn),
		now:      time.Now,
		warn:     warn,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case app.TabSwitchMsg:
		// Spinner ticks stop while another tab is active.
		if msg.Tab == app.TabUsage {
			return m, m.spinner.Tick
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	profiles := m.state.GetProfiles()
	count := len(profiles)
	current := m.selectedIndex()

	switch {
	case key.Matches(msg, m.keys.NextProfile):
		if count > 0 {
			return m.selectIndex((current + 1) % count)
		}
	case key.Matches(msg, m.keys.PrevProfile):
		if count > 0 {
			return m.selectIndex((current - 1 + count) % count)
		}
	case key.Matches(msg, m.keys.FirstProfile):
		if count > 0 {
			return m.selectIndex(0)
		}
	case key.Matches(msg, m.keys.LastProfile):
		if count > 0 {
			return m.selectIndex(count - 1)
		}
	case key.Matches(msg, m.keys.Fetch):
		if name := m.state.GetSelectedProfile(); name != "" {
			return m.commands.RequestFetch(name)
		}
		return m.commands.NotifyInfo("Add a profile first")
	case key.Matches(msg, m.keys.Save):
		return m.saveSelected()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) selectedIndex() int {
	selected := m.state.GetSelectedProfile()
	for i, p := range m.state.GetProfiles() {
		if p.Name == selected {
			return i
		}
	}
	return 0
}

func (m *Model) selectIndex(i int) tea.Cmd {
	profiles := m.state.GetProfiles()
	if i < 0 || i >= len(profiles) {
		return nil
	}
	name := profiles[i].Name
	m.state.SetSelectedProfile(name)
	return func() tea.Msg {
		return app.SelectedProfileChangedMsg{Name: name}
	}
}

// saveSelected asks for the selected profile's last report to be appended to
// the history file.
func (m *Model) saveSelected() tea.Cmd {
	name := m.state.GetSelectedProfile()
	res, ok := m.state.GetResult(name)
	if !ok || res.Report == nil {
		return m.commands.NotifyWarning("Nothing to save yet, fetch a report first")
	}

	username := res.Report.Username
	if p, found := m.state.GetProfile(name); found && p.Username != "" {
		username = p.Username
	}
	return m.commands.RequestSaveHistory(res.Report, username)
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextProfile,
		m.keys.Fetch,
		m.keys.Save,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextProfile, m.keys.PrevProfile},
		{m.keys.FirstProfile, m.keys.LastProfile},
		{m.keys.Fetch, m.keys.Save},
	}
}

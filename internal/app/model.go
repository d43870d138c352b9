package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
	"github.com/j-veylop/netmeter/internal/services/portal"
	"github.com/j-veylop/netmeter/internal/services/profiles"
	"github.com/j-veylop/netmeter/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabUsage is the ID for the usage tab.
	TabUsage TabID = iota
	// TabProfiles is the ID for the profiles tab.
	TabProfiles
	// TabHistory is the ID for the history tab.
	TabHistory
	// TabInfo is the ID for the info tab.
	TabInfo
)

var tabNames = []string{"Usage", "Profiles", "History", "Info"}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// CapturingInput is implemented by tabs that own a text input. While it
// returns true the global single-key shortcuts are delivered to the tab.
type CapturingInput interface {
	CapturingInput() bool
}

// Options tunes the root model.
type Options struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setNavigationKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "usage"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "profiles"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "history"))
	k.Tab4 = key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload profiles"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	k.ForceQ = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	return k
}

func setNavigationKeys(k KeyMap) KeyMap {
	k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	k.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	k.Enter = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	k.PageUp = key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up"))
	k.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(styles.Subtle)
	s.ActiveTab = styles.ActiveTabStyle
	s.InactiveTab = styles.InactiveTabStyle

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(styles.Success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(styles.Error).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(styles.Warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(styles.Info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = styles.TitleStyle
	s.Subtle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	s.Highlight = lipgloss.NewStyle().Foreground(styles.Secondary)

	return s
}

// Model is the main application model.
type Model struct {
	state        *State
	services     *services.Manager
	commands     *Commands
	eventChannel chan services.ServiceEvent
	tabs         []Tab
	spinner      spinner.Model
	styles       Styles
	keymap       KeyMap
	options      Options
	activeTab    TabID
	width        int
	height       int
	showHelp     bool
	ready        bool
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabUsage,
		tabs:      make([]Tab, len(tabNames)),
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
		options:   opts,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading profiles...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
		autoFetchCmd(m.options.RefreshInterval),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services), loadProfilesCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case AutoFetchMsg:
		cmds = append(cmds, m.handleAutoFetch()...)
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case ProfilesLoadedMsg:
		m.handleProfilesLoaded(msg)
	case FetchRequestMsg:
		cmds = append(cmds, m.handleFetchRequest(msg.Profile))
	case ReportFetchedMsg:
		cmds = append(cmds, m.handleReportFetched(msg)...)
	case SaveHistoryMsg:
		cmds = append(cmds, m.handleSaveHistory(msg))
	case HistorySavedMsg:
		cmds = append(cmds, m.handleHistorySaved(msg))
	case SaveProfileMsg:
		if m.services != nil {
			cmds = append(cmds, saveProfileCmd(m.services, msg.Name, msg.Credentials))
		}
	case ProfileSavedMsg:
		cmds = append(cmds, m.handleProfileResult(msg.Name, "Saved", msg.Err)...)
	case DeleteProfileMsg:
		if m.services != nil {
			cmds = append(cmds, deleteProfileCmd(m.services, msg.Name))
		}
	case ProfileDeletedMsg:
		cmds = append(cmds, m.handleProfileResult(msg.Name, "Deleted", msg.Err)...)
	case SelectedProfileChangedMsg:
		m.state.SetSelectedProfile(msg.Name)
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
	case StopLoadingMsg:
		m.state.SetLoading(msg.Resource, false)
		if !m.state.AnyLoading() {
			m.state.ClearLoadingNotification()
		}
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("%s: %v", msg.Context, msg.Error)))
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	case QuitMsg:
		cmds = append(cmds, tea.Quit)
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleProfilesLoaded(msg ProfilesLoadedMsg) {
	m.state.SetProfiles(msg.Profiles)
	m.state.SetStatuses(msg.Statuses)
	m.state.SetLoading("initial", false)
	m.state.SetLoading("profiles", false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

// handleFetchRequest starts a fetch unless one is already running.
func (m *Model) handleFetchRequest(profile string) tea.Cmd {
	if m.services == nil || profile == "" {
		return nil
	}
	if !m.state.BeginFetch() {
		return notifyInfoCmd("A fetch is already in progress")
	}
	m.state.SetLoadingNotification(fmt.Sprintf("Fetching %s...", profile))
	return fetchReportCmd(m.services, profile, m.options.FetchTimeout)
}

func (m *Model) handleAutoFetch() []tea.Cmd {
	cmds := []tea.Cmd{autoFetchCmd(m.options.RefreshInterval)}
	if profile := m.state.GetSelectedProfile(); profile != "" && !m.state.IsFetching() {
		cmds = append(cmds, m.handleFetchRequest(profile))
	}
	return cmds
}

func (m *Model) handleReportFetched(msg ReportFetchedMsg) []tea.Cmd {
	m.state.EndFetch()
	m.state.ClearLoadingNotification()
	m.state.SetResult(msg.Profile, msg.Report, msg.Err)

	var cmds []tea.Cmd
	if m.services != nil {
		cmds = append(cmds, loadProfilesCmd(m.services))
	}
	if msg.Err != nil {
		return append(cmds, notifyErrorCmd(DescribeError(msg.Err)))
	}
	if msg.Report.Status == report.StatusQuotaReached {
		return append(cmds, notifyWarningCmd(fmt.Sprintf("%s: quota reached", msg.Profile)))
	}
	return append(cmds, notifySuccessCmd(fmt.Sprintf("Updated %s", msg.Profile)))
}

func (m *Model) handleSaveHistory(msg SaveHistoryMsg) tea.Cmd {
	if msg.Report == nil {
		return notifyWarningCmd("Nothing to save; fetch a report first")
	}
	if m.services == nil {
		return nil
	}
	return saveHistoryCmd(m.services, msg.Report, msg.Username)
}

func (m *Model) handleHistorySaved(msg HistorySavedMsg) tea.Cmd {
	if msg.Err != nil {
		return notifyErrorCmd(fmt.Sprintf("Failed to save history: %v", msg.Err))
	}
	return notifySuccessCmd(fmt.Sprintf("Saved to %s", msg.Path))
}

func (m *Model) handleProfileResult(name, verb string, err error) []tea.Cmd {
	if err != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("%s failed: %v", strings.ToLower(verb), err))}
	}
	cmds := []tea.Cmd{notifySuccessCmd(fmt.Sprintf("%s profile %s", verb, name))}
	if m.services != nil {
		cmds = append(cmds, loadProfilesCmd(m.services))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.ProfilesChangedEvent:
		m.state.SetProfiles(e.Profiles)
	case services.ErrorEvent:
		// Portal failures already surface through ReportFetchedMsg.
		if e.Service != "portal" {
			return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
		}
	}
	return nil
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if tab := m.currentTab(); tab != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = tab.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) capturingInput() bool {
	c, ok := m.currentTab().(CapturingInput)
	return ok && c.CapturingInput()
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(id TabID) {
	if id < 0 || int(id) >= len(m.tabs) {
		return
	}
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles global keys. It reports whether the key was consumed;
// unconsumed keys are passed to the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQ) {
		return tea.Quit, true
	}
	if m.capturingInput() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}

	case key.Matches(msg, m.keymap.Tab1):
		return m.tabSwitchCmd(TabUsage), true
	case key.Matches(msg, m.keymap.Tab2):
		return m.tabSwitchCmd(TabProfiles), true
	case key.Matches(msg, m.keymap.Tab3):
		return m.tabSwitchCmd(TabHistory), true
	case key.Matches(msg, m.keymap.Tab4):
		return m.tabSwitchCmd(TabInfo), true

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp {
			return m.tabSwitchCmd(TabID((int(m.activeTab) + 1) % len(m.tabs))), true
		}
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp {
			return m.tabSwitchCmd(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs))), true
		}
		return nil, true

	case key.Matches(msg, m.keymap.Refresh):
		if m.services != nil {
			m.state.SetLoading("profiles", true)
			return loadProfilesCmd(m.services), true
		}
		return nil, true
	}

	return nil, false
}

// tabSwitchCmd switches immediately and tells the new tab it became active.
func (m *Model) tabSwitchCmd(id TabID) tea.Cmd {
	m.switchTab(id)
	return func() tea.Msg { return TabSwitchMsg{Tab: id} }
}

// DescribeError turns fetch errors into a one-line message for the user.
func DescribeError(err error) string {
	var fe *portal.FetchError
	var rfe *report.ResponseFormatError
	var mde *report.MalformedDataError
	var rue *report.ReportUnavailableError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, services.ErrUnknownProfile), errors.Is(err, profiles.ErrNotFound):
		return err.Error()
	case errors.As(err, &fe):
		return fmt.Sprintf("Connection failed: %v", fe.Err)
	case errors.As(err, &rfe):
		return "Portal returned a response that is not JSON"
	case errors.As(err, &mde):
		return fmt.Sprintf("Unexpected portal data at %s", mde.Field)
	case errors.As(err, &rue):
		if rue.Detail != "" && rue.Reason == "portal error" {
			return fmt.Sprintf("Portal error: %s", rue.Detail)
		}
		return "Portal returned no usage data"
	default:
		return err.Error()
	}
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if tab := m.currentTab(); tab != nil {
		b.WriteString(tab.View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-lipgloss.Width(overlay))/2, 0)
	overlayWidth := lipgloss.Width(overlay)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style, prefix = m.styles.NotificationSuccess, "[OK]"
		case NotificationError:
			style, prefix = m.styles.NotificationError, "[ERR]"
		case NotificationWarning:
			style, prefix = m.styles.NotificationWarning, "[WARN]"
		case NotificationInfo:
			style, prefix = m.styles.NotificationInfo, "[INFO]"
		case NotificationLoading:
			style, prefix = m.styles.NotificationInfo, m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	lines := []string{
		m.styles.Title.Render("Keyboard Shortcuts"),
		"",
		m.styles.Highlight.Render("Navigation"),
		"  1-4        Switch tabs",
		"  Tab        Next tab",
		"  Shift+Tab  Previous tab",
		"",
		m.styles.Highlight.Render("Actions"),
		"  Ctrl+R     Reload profiles",
		"  ?          Toggle help",
		"  q/Ctrl+C   Quit",
		"",
	}

	if tab := m.currentTab(); tab != nil {
		if tabHelp := tab.ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.activeTab)))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}

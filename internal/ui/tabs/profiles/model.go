// Package profiles provides the profile management tab.
package profiles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/ui/styles"
)

// formField represents which field is currently focused in the form.
type formField int

const (
	fieldName formField = iota
	fieldUsername
	fieldPassword
	fieldSubmit
	fieldCancel
	fieldCount
)

// keyMap defines the key bindings specific to the profiles tab.
type keyMap struct {
	Select key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Escape key.Binding
}

// defaultKeyMap returns the default key bindings for the profiles tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use profile"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add profile"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit profile"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the profiles tab state.
type Model struct {
	state         *app.State
	commands      *app.Commands
	table         table.Model
	nameInput     textinput.Model
	userInput     textinput.Model
	passInput     textinput.Model
	keys          keyMap
	formErr       string
	deleteName    string
	width         int
	height        int
	focusedField  formField
	editing       bool
	adding        bool
	confirmDelete bool
}

// New creates a new profiles model.
func New(state *app.State, commands *app.Commands) *Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "home"
	nameInput.CharLimit = 64
	nameInput.Width = 40

	userInput := textinput.New()
	userInput.Placeholder = "portal login"
	userInput.CharLimit = 128
	userInput.Width = 40

	passInput := textinput.New()
	passInput.Placeholder = "password"
	passInput.CharLimit = 128
	passInput.Width = 40
	passInput.EchoMode = textinput.EchoPassword
	passInput.EchoCharacter = '*'

	t := table.New(
		table.WithColumns(columns(30)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:     state,
		commands:  commands,
		table:     t,
		nameInput: nameInput,
		userInput: userInput,
		passInput: passInput,
		keys:      defaultKeyMap(),
	}
}

func columns(userWidth int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: 16},
		{Title: "Username", Width: userWidth},
		{Title: "Password", Width: 12},
		{Title: "Status", Width: 14},
		{Title: "Updated", Width: 16},
	}
}

// Init initializes the profiles tab.
func (m *Model) Init() tea.Cmd {
	m.updateTableData()
	return nil
}

// CapturingInput reports whether the form or the delete prompt owns the
// keyboard.
func (m *Model) CapturingInput() bool {
	return m.adding || m.confirmDelete
}

// Update handles messages for the profiles tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg.(type) {
	case app.ProfilesLoadedMsg, app.ProfileSavedMsg, app.ProfileDeletedMsg, app.TabSwitchMsg:
		m.updateTableData()
	}

	if m.adding {
		return m.updateForm(msg)
	}
	if m.confirmDelete {
		return m.updateDeleteConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Select):
		if name := m.selectedName(); name != "" {
			m.state.SetSelectedProfile(name)
			return m, tea.Batch(
				func() tea.Msg { return app.SelectedProfileChangedMsg{Name: name} },
				m.commands.NotifyInfo(fmt.Sprintf("Using profile %s", name)),
			)
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if name := m.selectedName(); name != "" {
			m.confirmDelete = true
			m.deleteName = name
		}

	case key.Matches(keyMsg, m.keys.Add):
		return m, m.openForm(models.Profile{}, false)

	case key.Matches(keyMsg, m.keys.Edit):
		if p, found := m.state.GetProfile(m.selectedName()); found {
			return m, m.openForm(p, true)
		}

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) selectedName() string {
	if row := m.table.SelectedRow(); len(row) > 0 {
		return row[0]
	}
	return ""
}

// openForm shows the form, prefilled with p when editing.
func (m *Model) openForm(p models.Profile, editing bool) tea.Cmd {
	m.adding = true
	m.editing = editing
	m.formErr = ""
	m.nameInput.SetValue(p.Name)
	m.userInput.SetValue(p.Username)
	m.passInput.SetValue(p.Password)
	m.nameInput.CursorEnd()
	m.userInput.CursorEnd()
	m.passInput.CursorEnd()

	m.focusedField = fieldName
	if editing {
		m.focusedField = fieldUsername
	}
	m.updateFormFocus()
	return textinput.Blink
}

func (m *Model) closeForm() {
	m.adding = false
	m.editing = false
	m.formErr = ""
	m.nameInput.Blur()
	m.userInput.Blur()
	m.passInput.Blur()
}

// updateForm handles the add/edit profile form.
func (m *Model) updateForm(msg tea.Msg) (app.Tab, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.closeForm()
			return m, nil

		case "tab", "down":
			m.moveFocus(1)
			return m, textinput.Blink

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, textinput.Blink

		case "enter":
			switch m.focusedField {
			case fieldCancel:
				m.closeForm()
				return m, nil
			case fieldSubmit, fieldPassword:
				return m, m.submit()
			default:
				m.moveFocus(1)
				return m, textinput.Blink
			}
		}
	}

	var cmd tea.Cmd
	switch m.focusedField {
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case fieldUsername:
		m.userInput, cmd = m.userInput.Update(msg)
	case fieldPassword:
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

// submit validates the form and asks the root model to store the profile.
func (m *Model) submit() tea.Cmd {
	name := strings.TrimSpace(m.nameInput.Value())
	username := strings.TrimSpace(m.userInput.Value())
	password := m.passInput.Value()

	switch {
	case name == "":
		m.formErr = "Profile name cannot be empty"
		m.focusedField = fieldName
	case username == "":
		m.formErr = "Username cannot be empty"
		m.focusedField = fieldUsername
	case !m.editing && m.exists(name):
		m.formErr = fmt.Sprintf("Profile %s already exists, press e to edit it", name)
		m.focusedField = fieldName
	default:
		m.closeForm()
		return m.commands.RequestSaveProfile(name, models.Credentials{
			Username: username,
			Password: password,
		})
	}
	m.updateFormFocus()
	return nil
}

func (m *Model) exists(name string) bool {
	_, found := m.state.GetProfile(name)
	return found
}

// updateDeleteConfirm handles the delete confirmation.
func (m *Model) updateDeleteConfirm(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		name := m.deleteName
		m.confirmDelete = false
		m.deleteName = ""
		return m, m.commands.RequestDeleteProfile(name)
	case "n", "N", "esc":
		m.confirmDelete = false
		m.deleteName = ""
	}
	return m, nil
}

// moveFocus cycles through the form fields. The name is fixed while editing.
func (m *Model) moveFocus(delta int) {
	next := (int(m.focusedField) + delta + int(fieldCount)) % int(fieldCount)
	if m.editing && formField(next) == fieldName {
		next = (next + delta + int(fieldCount)) % int(fieldCount)
	}
	m.focusedField = formField(next)
	m.updateFormFocus()
}

// updateFormFocus updates which form field is focused.
func (m *Model) updateFormFocus() {
	m.nameInput.Blur()
	m.userInput.Blur()
	m.passInput.Blur()

	switch m.focusedField {
	case fieldName:
		m.nameInput.Focus()
	case fieldUsername:
		m.userInput.Focus()
	case fieldPassword:
		m.passInput.Focus()
	}
}

// updateTableData fills the table from the shared state.
func (m *Model) updateTableData() {
	profiles := m.state.GetProfiles()
	rows := make([]table.Row, 0, len(profiles))

	for _, p := range profiles {
		status, updated := "-", "never"
		if st, ok := m.state.GetStatus(p.Name); ok {
			status = st.Status
			if st.QuotaPercent != nil {
				status = fmt.Sprintf("%s %.0f%%", st.Status, *st.QuotaPercent)
			}
			if !st.LastUpdated.IsZero() {
				updated = humanize.Time(st.LastUpdated)
			}
		}

		rows = append(rows, table.Row{p.Name, p.Username, p.MaskedPassword(), status, updated})
	}

	m.table.SetRows(rows)
}

// SetSize sets the available size for the profiles tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-10, 3))
	m.table.SetColumns(columns(min(max(width-76, 16), 40)))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.adding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			m.keys.Escape,
		}
	}
	return []key.Binding{
		m.keys.Select,
		m.keys.Add,
		m.keys.Delete,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Select, m.keys.Add},
		{m.keys.Edit, m.keys.Delete},
	}
}

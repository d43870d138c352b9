package profiles

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/models"
)

func newTestModel(t *testing.T, profiles ...models.Profile) (*Model, *app.State) {
	t.Helper()

	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetProfiles(profiles)

	m := New(state, app.NewCommands(nil))
	m.SetSize(120, 40)
	m.Init()
	return m, state
}

func profile(name, user, pass string) models.Profile {
	return models.Profile{Name: name, Credentials: models.Credentials{Username: user, Password: pass}}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(runeKey(r))
	}
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestModel_AddProfile(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('a'))
	if !m.CapturingInput() {
		t.Fatal("form should capture input")
	}

	typeText(m, "home")
	press(m, tea.KeyTab)
	typeText(m, "alice")
	press(m, tea.KeyTab)
	typeText(m, "s3cret")

	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("submitting should save the profile")
	}
	msg, ok := cmd().(app.SaveProfileMsg)
	if !ok {
		t.Fatalf("cmd() = %#v, want SaveProfileMsg", msg)
	}
	want := app.SaveProfileMsg{Name: "home", Credentials: models.Credentials{Username: "alice", Password: "s3cret"}}
	if msg != want {
		t.Errorf("msg = %+v, want %+v", msg, want)
	}
	if m.CapturingInput() {
		t.Error("form should close after submit")
	}
}

func TestModel_FormValidation(t *testing.T) {
	tests := []struct {
		name     string
		existing []models.Profile
		profile  string
		username string
		wantErr  string
	}{
		{"EmptyName", nil, "  ", "alice", "name cannot be empty"},
		{"EmptyUsername", nil, "home", "", "Username cannot be empty"},
		{"Duplicate", []models.Profile{profile("home", "bob", "x")}, "home", "alice", "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, tt.existing...)

			m.Update(runeKey('a'))
			typeText(m, tt.profile)
			press(m, tea.KeyTab)
			typeText(m, tt.username)
			press(m, tea.KeyTab)

			if cmd := press(m, tea.KeyEnter); cmd != nil {
				t.Errorf("invalid form should not submit, got %#v", cmd())
			}
			if !strings.Contains(m.formErr, tt.wantErr) {
				t.Errorf("formErr = %q, want it to contain %q", m.formErr, tt.wantErr)
			}
			if !m.CapturingInput() {
				t.Error("form should stay open")
			}
			if !strings.Contains(m.View(), tt.wantErr) {
				t.Error("view should show the validation error")
			}
		})
	}
}

func TestModel_EditProfile(t *testing.T) {
	m, _ := newTestModel(t, profile("home", "alice", "old"))

	m.Update(runeKey('e'))
	if !m.editing || m.focusedField != fieldUsername {
		t.Fatalf("edit should open on the username, got field %d", m.focusedField)
	}

	press(m, tea.KeyTab)
	press(m, tea.KeyBackspace)
	press(m, tea.KeyBackspace)
	press(m, tea.KeyBackspace)
	typeText(m, "new")

	msg, ok := press(m, tea.KeyEnter)().(app.SaveProfileMsg)
	if !ok {
		t.Fatal("expected SaveProfileMsg")
	}
	if msg.Name != "home" || msg.Credentials.Password != "new" || msg.Credentials.Username != "alice" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestModel_EditSkipsName(t *testing.T) {
	m, _ := newTestModel(t, profile("home", "alice", "pw"))

	m.Update(runeKey('e'))
	press(m, tea.KeyShiftTab)
	if m.focusedField != fieldCancel {
		t.Errorf("focusedField = %d, want cancel", m.focusedField)
	}
	press(m, tea.KeyTab)
	if m.focusedField != fieldUsername {
		t.Errorf("focusedField = %d, want username", m.focusedField)
	}
}

func TestModel_CancelForm(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runeKey('a'))
	typeText(m, "q")
	press(m, tea.KeyEsc)

	if m.CapturingInput() {
		t.Error("esc should close the form")
	}
}

func TestModel_DeleteProfile(t *testing.T) {
	m, _ := newTestModel(t, profile("home", "alice", "pw"))

	m.Update(runeKey('d'))
	if !m.CapturingInput() {
		t.Fatal("delete should ask for confirmation")
	}
	if _, cmd := m.Update(runeKey('n')); cmd != nil || m.confirmDelete {
		t.Error("n should cancel without a command")
	}

	m.Update(runeKey('d'))
	_, cmd := m.Update(runeKey('y'))
	if cmd == nil {
		t.Fatal("y should delete")
	}
	if msg, ok := cmd().(app.DeleteProfileMsg); !ok || msg.Name != "home" {
		t.Errorf("cmd() = %#v", msg)
	}
}

func TestModel_SelectProfile(t *testing.T) {
	m, state := newTestModel(t, profile("home", "a", "x"), profile("work", "b", "y"))

	press(m, tea.KeyDown)
	if cmd := press(m, tea.KeyEnter); cmd == nil {
		t.Fatal("enter should emit a selection")
	}
	if got := state.GetSelectedProfile(); got != "work" {
		t.Errorf("selected = %q, want work", got)
	}
}

func TestModel_View(t *testing.T) {
	m, state := newTestModel(t)
	if view := m.View(); !strings.Contains(view, "No Profiles Configured") {
		t.Errorf("empty view = %q", view)
	}

	state.SetProfiles([]models.Profile{profile("home", "alice", "pw12")})
	state.SetStatuses(map[string]models.ProfileStatus{"home": {Status: "Active"}})
	m.Update(app.ProfilesLoadedMsg{})

	view := m.View()
	for _, want := range []string{"home", "alice", "****", "Active", "using home"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if strings.Contains(view, "pw12") {
		t.Error("view must not show the password")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.ShortHelp()) != 3 || len(m.FullHelp()) != 2 {
		t.Error("unexpected help bindings")
	}

	m.Update(runeKey('a'))
	if got := m.ShortHelp()[0].Help().Key; got != "tab" {
		t.Errorf("form help starts with %q", got)
	}
}

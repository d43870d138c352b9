package profiles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/netmeter/internal/ui/styles"
)

// View renders the profiles tab.
func (m *Model) View() string {
	sections := []string{m.renderTitle()}

	switch {
	case m.adding:
		sections = append(sections, m.renderForm())
	case m.confirmDelete:
		sections = append(sections, m.renderDeleteConfirm(), m.renderTable())
	default:
		sections = append(sections, m.renderTable())
	}

	sections = append(sections, m.renderFooter())

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Profiles")

	subtitle := fmt.Sprintf("%d profiles configured", m.state.GetProfileCount())
	if sel := m.state.GetSelectedProfile(); sel != "" {
		subtitle += " · using " + sel
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderTable() string {
	if m.state.GetProfileCount() == 0 {
		return m.renderEmptyState()
	}

	m.updateTableData()
	return styles.CardStyle.Width(max(m.width-6, 60)).Render(m.table.View())
}

func (m *Model) renderEmptyState() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Profiles Configured"),
		styles.HelpStyle.Render("A profile stores the portal login for one account."),
		"",
		styles.InfoTextStyle.Render("Press 'a' to add a profile"),
		"",
	)
	return styles.CardStyle.Width(max(m.width-6, 40)).Render(content)
}

func (m *Model) renderForm() string {
	cardWidth := styles.CardWidth(m.width, 50, 80)
	inputWidth := cardWidth - 10

	title := "Add Profile"
	if m.editing {
		title = "Edit Profile"
	}

	rows := []string{styles.CardTitleStyle.Render(title)}
	rows = append(rows, m.renderField("Name", fieldName, m.nameInput, inputWidth)...)
	rows = append(rows, m.renderField("Username", fieldUsername, m.userInput, inputWidth)...)
	rows = append(rows, m.renderField("Password", fieldPassword, m.passInput, inputWidth)...)

	if m.formErr != "" {
		rows = append(rows, styles.ErrorTextStyle.Render("✗ "+m.formErr), "")
	}

	submitStyle, cancelStyle := styles.ButtonInactiveStyle, styles.ButtonInactiveStyle
	switch m.focusedField {
	case fieldSubmit:
		submitStyle = styles.ButtonActiveStyle
	case fieldCancel:
		cancelStyle = styles.ButtonActiveStyle
	}

	rows = append(rows,
		lipgloss.JoinHorizontal(lipgloss.Center,
			submitStyle.Render(" Save "),
			"  ",
			cancelStyle.Render(" Cancel "),
		),
		"",
		styles.HelpStyle.Render("Tab: next field | Enter: submit | Esc: cancel"),
	)

	return styles.ModalContentStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderField(label string, field formField, input textinput.Model, width int) []string {
	labelStyle, border := styles.BlurredStyle, styles.BlurredBorderStyle
	prefix := "  "
	if m.focusedField == field {
		labelStyle, border = styles.FocusedStyle, styles.FocusedBorderStyle
		prefix = "> "
	}

	view := input.View()
	if field == fieldName && m.editing {
		view = styles.HelpStyle.Render(input.Value())
	}

	return []string{
		labelStyle.Render(prefix + label + ":"),
		border.Width(width).Render(view),
		"",
	}
}

func (m *Model) renderDeleteConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.WarningTextStyle.Bold(true).Render("Delete Profile?"),
		"",
		"The stored credentials for",
		styles.ErrorTextStyle.Render(m.deleteName),
		"will be removed.",
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	return styles.CenterHorizontal(
		styles.ModalContentStyle.Width(50).Render(content),
		m.width,
	)
}

func (m *Model) renderFooter() string {
	var shortcuts []string
	switch {
	case m.adding:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Tab") + " next",
			styles.HelpKeyStyle.Render("Enter") + " submit",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	case m.confirmDelete:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Y") + " confirm",
			styles.HelpKeyStyle.Render("N") + " cancel",
		}
	default:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Enter") + " use",
			styles.HelpKeyStyle.Render("a") + " add",
			styles.HelpKeyStyle.Render("e") + " edit",
			styles.HelpKeyStyle.Render("d") + " delete",
		}
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(strings.Join(shortcuts, styles.HelpSeparatorStyle.Render(" | ")))
}

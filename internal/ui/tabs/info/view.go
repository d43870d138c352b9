package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/netmeter/internal/ui/styles"
	"github.com/j-veylop/netmeter/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		refresh := "manual"
		if m.config.RefreshInterval > 0 {
			refresh = "every " + m.config.RefreshInterval.String()
		}
		verify := "on"
		if m.config.PortalInsecure {
			verify = "off"
		}

		rows = append(rows,
			renderRow("Portal", m.config.PortalURL),
			renderRow("TLS verification", verify),
			renderRow("Timeout", m.config.PortalTimeout.String()),
			renderRow("Auto fetch", refresh),
			renderRow("Warn above", fmt.Sprintf("%.0f%%", m.config.QuotaWarnPercent)),
			"",
			renderRow("Profiles file", m.config.ProfilesPath),
			renderRow("History file", m.config.HistoryPath),
			renderRow("Database", m.config.DatabasePath),
			renderRow("Log file", m.config.LogPath),
			renderRow("Log level", m.config.LogLevel.String()),
			"",
			styles.HelpStyle.Render("Press 'c' to copy the profiles path"),
		)
	}

	return styles.CardStyle.Width(styles.CardWidth(m.width, 50, 90)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		renderRow("Version", version.GetVersion()),
		renderRow("Commit", version.GetCommit()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
		fmt.Sprintf("Profiles: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", m.state.GetProfileCount()))),
	}

	return styles.CardStyle.Width(styles.CardWidth(m.width, 50, 90)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

package usage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/netmeter/internal/app"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/ui/styles"
)

const maxNameWidth = 24

// View renders the usage tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	sections := []string{m.renderTitle()}

	if m.state.GetProfileCount() == 0 {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.renderProfileList(), m.renderReportCard())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	msg := fmt.Sprintf("%s %s", m.spinner.View(), styles.HelpStyle.Render("Loading profiles..."))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Usage")
	subtitle := styles.HelpStyle.Render("Captive portal traffic and quota")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty() string {
	cardWidth := styles.CardWidth(m.width, 40, 90)
	emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")

	content := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", emptyIcon, styles.HelpStyle.Render("No profiles configured")),
		"",
		styles.InfoTextStyle.Render("╰─▶ Open the Profiles tab (2) and press 'a' to add one"),
	)
	return styles.CardStyle.Width(cardWidth).Render(content)
}

func (m *Model) renderProfileList() string {
	cardWidth := styles.CardWidth(m.width, 40, 90)
	selected := m.state.GetSelectedProfile()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Profiles"))}

	for _, p := range m.state.GetProfiles() {
		rows = append(rows, m.renderProfileRow(p, p.Name == selected))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderProfileRow(p models.Profile, selected bool) string {
	prefix := "  "
	nameStyle := lipgloss.NewStyle().Bold(true)
	if selected {
		prefix = styles.FocusedStyle.Render("▸ ")
		nameStyle = nameStyle.Foreground(styles.Primary)
	}

	name := p.Name
	if len(name) > maxNameWidth {
		name = name[:maxNameWidth-3] + "..."
	}

	line := fmt.Sprintf("%s%s %s", prefix,
		nameStyle.Render(name),
		styles.HelpStyle.Render(p.Username),
	)

	if st, ok := m.state.GetStatus(p.Name); ok {
		badge := styles.GetStatusStyle(st.Status).Render(st.Status)
		line += "  " + badge
		if st.QuotaPercent != nil {
			line += " " + styles.GetUsageStyle(*st.QuotaPercent, m.warn).
				Render(fmt.Sprintf("%.1f%%", *st.QuotaPercent))
		}
	}
	return line
}

func (m *Model) renderReportCard() string {
	cardWidth := styles.CardWidth(m.width, 40, 90)
	name := m.state.GetSelectedProfile()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Report: "+name))

	if m.state.IsFetching() {
		rows = append(rows, fmt.Sprintf("%s %s", m.spinner.View(), styles.HelpStyle.Render("Contacting portal...")), "")
	}

	res, ok := m.state.GetResult(name)
	switch {
	case !ok:
		rows = append(rows, m.renderStoredStatus(name)...)
	case res.Err != nil:
		rows = append(rows,
			styles.ErrorTextStyle.Render("✗ "+app.DescribeError(res.Err)),
			styles.HelpStyle.Render("Attempted "+humanize.RelTime(res.FetchedAt, m.now(), "ago", "from now")),
		)
	default:
		rows = append(rows, m.renderReport(res.Report, cardWidth-6)...)
		rows = append(rows, "", styles.HelpStyle.Render("Fetched "+humanize.RelTime(res.FetchedAt, m.now(), "ago", "from now")))
	}

	card := styles.CardStyle
	if ok && res.Report != nil && (res.Report.HighUsage(m.warn) || res.Report.Status == report.StatusQuotaReached) {
		card = styles.AlertCardStyle
	}
	return card.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderStoredStatus shows the outcome of the last fetch recorded in the
// database before anything was fetched in this session.
func (m *Model) renderStoredStatus(name string) []string {
	hint := styles.InfoTextStyle.Render("Press enter to fetch usage")

	st, ok := m.state.GetStatus(name)
	if !ok {
		return []string{styles.HelpStyle.Render("No report fetched yet"), "", hint}
	}

	rows := []string{
		fmt.Sprintf("Last status: %s (%s)",
			styles.GetStatusStyle(st.Status).Render(st.Status),
			humanize.RelTime(st.LastUpdated, m.now(), "ago", "from now")),
	}
	if st.TotalBytes > 0 {
		rows = append(rows, "Total: "+report.MB(st.TotalBytes))
	}
	if st.LastError != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(st.LastError))
	}
	return append(rows, "", hint)
}

func (m *Model) renderReport(rep *report.UsageReport, width int) []string {
	label := lipgloss.NewStyle().Width(21).Foreground(styles.TextMuted)
	row := func(name, value string) string {
		return label.Render(name) + value
	}

	rows := []string{
		row("Status", styles.GetStatusStyle(rep.Status.String()).Render(rep.Status.String())),
		row("Username", rep.Username),
		"",
		row("Download", lipgloss.NewStyle().Foreground(styles.Download).Render(report.MB(rep.DownloadBytes))),
		row("Upload", lipgloss.NewStyle().Foreground(styles.Upload).Render(report.MB(rep.UploadBytes))),
		row("Total", lipgloss.NewStyle().Bold(true).Render(report.MB(rep.TotalBytes))),
	}

	if limit, ok := rep.QuotaLimitBytes(); ok {
		rows = append(rows, row(rep.QuotaBasis.String(), report.MB(limit)))
	}
	if rep.Quota != nil {
		if used, ok := rep.Quota.UsedBytes(); ok {
			rows = append(rows, row("Quota used", report.MB(used)))
		}
		if rep.Quota.AvailableBytes != nil {
			rows = append(rows, row("Remaining", report.MB(*rep.Quota.AvailableBytes)))
		}
	}
	if rep.QuotaExceededBy != nil {
		rows = append(rows, row("Exceeded by", styles.ErrorTextStyle.Render(report.MB(*rep.QuotaExceededBy))))
	}

	if rep.QuotaPercentUsed != nil {
		rows = append(rows, "", m.bar.View(*rep.QuotaPercentUsed, "Used", width))
		if rep.HighUsage(m.warn) {
			rows = append(rows, styles.WarningTextStyle.Render(
				fmt.Sprintf("⚠ Usage above %.0f%%", m.warn)))
		}
	}

	rows = append(rows, divider(width))
	if rep.RenewalInstant.IsZero() {
		rows = append(rows, row("Renewal", styles.HelpStyle.Render("unknown")))
	} else {
		when := humanize.RelTime(rep.RenewalInstant, m.now(), "ago", "from now")
		rows = append(rows,
			row("Renewal", rep.RenewalInstant.Local().Format("Mon Jan 2 15:04")+" "+styles.HelpStyle.Render("("+when+")")),
			row("Time left", rep.Countdown().String()),
		)
	}

	return rows
}

// divider is a thin horizontal rule sized to the card.
func divider(width int) string {
	return lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("─", max(width, 10)))
}

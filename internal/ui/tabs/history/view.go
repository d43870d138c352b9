package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/ui/components"
	"github.com/j-veylop/netmeter/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && !m.loaded {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if len(m.records) == 0 && len(m.daily) == 0 {
		return m.renderEmpty()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderConsumptionChart(),
		m.renderRecords(),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading history data..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No usage history yet."),
		styles.HelpStyle.Render("Fetched reports are charted here; press 's' on the Usage tab to save a row."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	name := m.username
	if name == "" {
		name = "all profiles"
	}
	title := styles.TitleStyle.Render("History: " + name)

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var notes []string
	if !m.since.IsZero() {
		notes = append(notes, "Tracking since "+m.since.Local().Format("Jan 2, 2006"))
	}
	if !m.lastRefresh.IsZero() {
		notes = append(notes, "Updated "+humanize.Time(m.lastRefresh))
	}
	subtitle := styles.HelpStyle.Render(strings.Join(notes, " · "))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderConsumptionChart() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📈")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Daily Consumption (MB)")),
		"",
	}

	if len(m.daily) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No snapshots for this range"))
	} else {
		down := make([]float64, len(m.daily))
		up := make([]float64, len(m.daily))
		totals := make([]float64, len(m.daily))
		for i, d := range m.daily {
			down[i] = report.Megabytes(d.DownloadBytes)
			up[i] = report.Megabytes(d.UploadBytes)
			totals[i] = report.Megabytes(d.TotalBytes)
		}

		first := m.daily[0].Date.Format("Jan 2")
		last := m.daily[len(m.daily)-1].Date.Format("Jan 2")
		chart := components.RenderTrafficChart(down, up, max(cardWidth-14, 30), 8,
			fmt.Sprintf("%s → %s (%d days)", first, last, len(m.daily)))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		peak := m.daily[0]
		for _, d := range m.daily[1:] {
			if d.TotalBytes > peak.TotalBytes {
				peak = d
			}
		}
		rows = append(rows,
			"",
			fmt.Sprintf("  Total trend %s", components.RenderSparkline(totals, 30)),
			fmt.Sprintf("  Peak: %s on %s",
				lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(report.MB(peak.TotalBytes)),
				peak.Date.Format("Mon Jan 2")),
		)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecords() string {
	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("≡")
	rows := []string{
		fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Saved Reports")),
	}

	if len(m.records) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing saved yet"))
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styles.TableHeaderStyle.Padding(0, 1)
				}
				return styles.TableCellStyle.Padding(0, 1)
			}).
			Headers("Timestamp", "Username", "Status", "Download MB", "Upload MB", "Total MB")

		for _, r := range m.records {
			t.Row(
				r.Timestamp.Format("2006-01-02 15:04:05"),
				r.Username,
				r.Status,
				fmt.Sprintf("%.2f", r.DownloadMB),
				fmt.Sprintf("%.2f", r.UploadMB),
				fmt.Sprintf("%.2f", r.TotalMB),
			)
		}
		rows = append(rows, t.Render())
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// Package components provides reusable UI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/netmeter/internal/ui/styles"
)

const (
	minBarWidth   = 10
	labelAndValue = 20
)

// UsageBar renders used quota as a progress bar that fills from green to red.
type UsageBar struct {
	progress progress.Model
	warn     float64
}

// NewUsageBar creates a usage bar; warn is the percent above which the value
// is drawn as high usage.
func NewUsageBar(warn float64) UsageBar {
	return UsageBar{
		progress: progress.New(
			progress.WithScaledGradient("#51cf66", "#ff6b6b"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		warn: warn,
	}
}

// View renders label, bar and percentage within width columns. Percentages
// above 100 fill the bar and are printed as-is.
func (u UsageBar) View(percent float64, label string, width int) string {
	u.progress.Width = max(width-labelAndValue, minBarWidth)

	fill := min(max(percent/100, 0), 1)
	bar := u.progress.ViewAs(fill)

	value := styles.GetUsageStyle(percent, u.warn).
		Inherit(styles.ProgressPercentStyle).
		Render(fmt.Sprintf("%.1f%%", percent))

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		styles.ProgressLabelStyle.Render(label),
		bar,
		" ",
		value,
	)
}

// ViewCompact renders the bar and percentage without a label.
func (u UsageBar) ViewCompact(percent float64, width int) string {
	u.progress.Width = max(width-8, 5)

	fill := min(max(percent/100, 0), 1)
	value := styles.GetUsageStyle(percent, u.warn).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, u.progress.ViewAs(fill), " ", value)
}

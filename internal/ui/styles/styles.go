// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary   = lipgloss.Color("39")  // Sea blue
	Secondary = lipgloss.Color("73")  // Teal
	Subtle    = lipgloss.Color("240") // Gray

	Download = lipgloss.Color("44")  // Cyan
	Upload   = lipgloss.Color("177") // Violet

	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("75")  // Light blue

	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// ActiveTabStyle styles the currently selected tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("231")).
	Background(Primary).
	Padding(0, 2).
	MarginRight(1)

// InactiveTabStyle styles non-selected tabs.
var InactiveTabStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(BgLight).
	Padding(0, 2).
	MarginRight(1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// AlertCardStyle highlights a card whose usage needs attention.
var AlertCardStyle = CardStyle.
	BorderForeground(Warning)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// BlurredStyle is used for unfocused input elements.
var BlurredStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// FocusedBorderStyle creates a focused border.
var FocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// BlurredBorderStyle creates an unfocused border.
var BlurredBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

var (
	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextSecondary).
				Width(10)

	ProgressPercentStyle = lipgloss.NewStyle().
				Bold(true).
				Width(7).
				Align(lipgloss.Right)
)

// HelpStyle styles muted hint text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles key names in hints.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Secondary).
	Bold(true)

// HelpSeparatorStyle separates footer hints.
var HelpSeparatorStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// HelpPanelStyle frames the help overlay.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(1, 2).
	Background(BgDark)

// ModalContentStyle frames forms and confirmation dialogs.
var ModalContentStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(1, 2)

var (
	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(Primary).
				Bold(true)

	ButtonInactiveStyle = lipgloss.NewStyle().
				Foreground(TextSecondary).
				Background(BgLight)
)

// ListItemStyle styles list rows.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedListItemStyle styles the selected list row.
var SelectedListItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(Primary).
	Foreground(Primary).
	Bold(true)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// Usage levels.
var (
	UsageLowStyle = lipgloss.NewStyle().
			Foreground(Success)

	UsageMediumStyle = lipgloss.NewStyle().
				Foreground(Warning)

	UsageHighStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Status badges.
var (
	StatusActiveStyle = lipgloss.NewStyle().
				Foreground(Success).
				Bold(true)

	StatusQuotaReachedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(Error).
				Bold(true).
				Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(Error).
				Italic(true)
)

var (
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// GetUsageStyle picks the style for a used-quota percentage. Anything above
// warn is high; the band from half of warn up to warn is medium.
func GetUsageStyle(percent, warn float64) lipgloss.Style {
	switch {
	case percent > warn:
		return UsageHighStyle
	case percent > warn/2:
		return UsageMediumStyle
	default:
		return UsageLowStyle
	}
}

// GetStatusStyle returns the badge style for a status label.
func GetStatusStyle(status string) lipgloss.Style {
	switch status {
	case "Active":
		return StatusActiveStyle
	case "Quota Reached":
		return StatusQuotaReachedStyle
	default:
		return StatusErrorStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CardWidth clamps a card to the available width.
func CardWidth(available, lo, hi int) int {
	return min(max(available-6, lo), hi)
}

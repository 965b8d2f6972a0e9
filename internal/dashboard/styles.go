package dashboard

import (
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = ui.ColorNeonPink
	ColorAccentDim = ui.ColorNeonPurple
	ColorGraph     = ui.ColorNeonCyan
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	// Widget cards on the Dashboard tab
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2).
			MarginRight(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	CardValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	StatusAlertStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	StatusOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	StatusLineStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	StatusLineErrorStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Padding(0, 1)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)

// StatusStyle returns the style for a monitor status.
func StatusStyle(s domain.MonitorStatus) lipgloss.Style {
	switch s {
	case domain.StatusOK:
		return StatusOKStyle
	case domain.StatusAlert:
		return StatusAlertStyle
	default:
		return StatusOfflineStyle
	}
}

// StatusIndicator returns the glyph shown next to a monitor status.
func StatusIndicator(s domain.MonitorStatus) string {
	switch s {
	case domain.StatusOK:
		return ui.SymbolComplete
	case domain.StatusAlert:
		return ui.SymbolAlert
	default:
		return ui.SymbolPending
	}
}

// verdictStyle colors a result headline: green when the result is clean,
// red when it raises an alert.
func verdictStyle(alert bool) lipgloss.Style {
	if alert {
		return StatusAlertStyle
	}
	return StatusOKStyle
}

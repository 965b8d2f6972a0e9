package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "Tab / 1-4", Desc: "Switch tab"},
	{Key: "r", Desc: "Reload monitors and logs"},
	{Key: "up / k", Desc: "Previous monitor / scroll up"},
	{Key: "down / j", Desc: "Next monitor / scroll down"},
	{Key: "n", Desc: "New monitor"},
	{Key: "e", Desc: "Edit selected monitor"},
	{Key: "d", Desc: "Delete selected monitor"},
	{Key: "t", Desc: "Test scan with an image"},
	{Key: "x", Desc: "Trigger selected monitor"},
	{Key: "w", Desc: "Show webhook commands"},
	{Key: "b", Desc: "Download bridge script"},
	{Key: "a", Desc: "Logs: only alerts"},
	{Key: "Esc", Desc: "Close / cancel"},
	{Key: "?", Desc: "Toggle this help"},
}

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(binding.Key)+helpDescStyle.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	return m.place(helpBoxStyle.Render(strings.Join(lines, "\n")))
}

// place centers content in the window, or returns it as is before the
// first WindowSizeMsg.
func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}

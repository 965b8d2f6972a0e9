package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.3.0"
	Tagline string // optional
	Backend string // backend base URL, optional
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the branded title block.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorNeonCyan)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorGlassBorder)

	var out strings.Builder
	out.WriteString(titleStyle.Render("camai"))
	if info.Version != "" {
		out.WriteString(" " + versionStyle.Render(info.Version))
	}
	out.WriteString("\n")

	if info.Tagline != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline) + "\n")
	}
	if info.Backend != "" {
		out.WriteString(MutedStyle().Render(info.Backend) + "\n")
	}

	out.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)) + "\n")
	return out.String()
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication. ANSI codes keep them readable on
// any terminal theme.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent palette for the dashboard chrome.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00F0FF"
	ColorNeonPurple  lipgloss.Color = "#B967FF"
	ColorNeonGreen   lipgloss.Color = "#05FFA1"
	ColorNeonAmber   lipgloss.Color = "#FFB000"
	ColorDarkSurface lipgloss.Color = "#1A1B26"
	ColorGlassBorder lipgloss.Color = "#3B3F5C"
)

// GradientColors cycle through the CLI spinner frames.
var GradientColors = []lipgloss.Color{ColorNeonPink, ColorNeonPurple, ColorNeonCyan, ColorNeonGreen}

// Color modes accepted by output.color and --color.
const (
	ColorModeAuto   = "auto"
	ColorModeAlways = "always"
	ColorModeNever  = "never"
)

// ApplyColorMode sets the global lipgloss color profile. "auto" keeps the
// profile detected from the terminal.
func ApplyColorMode(mode string) {
	switch strings.ToLower(mode) {
	case ColorModeNever:
		DisableColors()
	case ColorModeAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// DisableColors switches to monochrome output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SuccessStyle renders text in the success color.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders text in the error color.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders text in the warning color.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// BoldStyle renders emphasized text.
func BoldStyle() lipgloss.Style { return lipgloss.NewStyle().Bold(true) }

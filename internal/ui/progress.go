package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	progressFilled = '█'
	progressEmpty  = '░'
)

// RenderProgressBar draws a completion bar: ████████░░░░  67%.
// percent is clamped to 0-100. Finished work is green, the rest cyan.
func RenderProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filled := int((percent / 100.0) * float64(width))
	bar := strings.Repeat(string(progressFilled), filled) + strings.Repeat(string(progressEmpty), width-filled)

	color := ColorNeonCyan
	if percent >= 100 {
		color = ColorSuccess
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar) + fmt.Sprintf(" %3.0f%%", percent)
}

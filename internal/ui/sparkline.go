package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws the last width counts as a one-line chart scaled
// from zero to the largest value. The line is red when the newest value is
// non-zero, green otherwise.
func RenderSparkline(data []int, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	highest := 0
	for _, v := range data {
		if v > highest {
			highest = v
		}
	}

	var sb strings.Builder
	top := len(sparklineBlocks) - 1
	for _, v := range data {
		level := 0
		if highest > 0 && v > 0 {
			level = 1 + (v*(top-1))/highest
			if level > top {
				level = top
			}
		}
		sb.WriteRune(sparklineBlocks[level])
	}

	color := ColorSuccess
	if data[len(data)-1] > 0 {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

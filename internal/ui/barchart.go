package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a bar chart.
type Bar struct {
	Label string
	Value int
}

// eighths are partial block characters used for the top of a bar.
var eighths = []rune(" ▁▂▃▄▅▆▇█")

// RenderBarChart draws vertical bars height rows tall, with the value above
// and the label below each bar. Bars are scaled to the largest value; an
// all-zero chart renders flat.
func RenderBarChart(bars []Bar, height int, color lipgloss.Color) string {
	if len(bars) == 0 || height <= 0 {
		return ""
	}

	colWidth := 3
	highest := 0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > colWidth {
			colWidth = w
		}
		if w := len(fmt.Sprint(b.Value)); w > colWidth {
			colWidth = w
		}
		if b.Value > highest {
			highest = b.Value
		}
	}
	barWidth := colWidth - 1
	if barWidth < 1 {
		barWidth = 1
	}

	// Bar heights in eighths of a row.
	levels := make([]int, len(bars))
	for i, b := range bars {
		if highest > 0 && b.Value > 0 {
			levels[i] = b.Value * height * 8 / highest
			if levels[i] == 0 {
				levels[i] = 1
			}
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	var out strings.Builder

	for i, b := range bars {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(center(fmt.Sprint(b.Value), colWidth))
	}
	out.WriteString("\n")

	for row := height - 1; row >= 0; row-- {
		for i := range bars {
			if i > 0 {
				out.WriteString(" ")
			}
			fill := levels[i] - row*8
			var cell string
			switch {
			case fill >= 8:
				cell = strings.Repeat(string(eighths[8]), barWidth)
			case fill > 0:
				cell = strings.Repeat(string(eighths[fill]), barWidth)
			default:
				cell = strings.Repeat(" ", barWidth)
			}
			out.WriteString(center(barStyle.Render(cell), colWidth))
		}
		out.WriteString("\n")
	}

	axis := MutedStyle()
	for i := range bars {
		if i > 0 {
			out.WriteString(axis.Render("─"))
		}
		out.WriteString(axis.Render(strings.Repeat("─", colWidth)))
	}
	out.WriteString("\n")

	for i, b := range bars {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(axis.Render(center(b.Label, colWidth)))
	}
	return out.String()
}

func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

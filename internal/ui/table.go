package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// TableStyles returns the styling shared by the dashboard tables.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGlassBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorGlassBorder).
		Bold(false)
	return s
}

// NewTable creates a Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row, height int) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	if height <= 0 {
		height = len(rows) + 1 // +1 for header
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	t.SetStyles(TableStyles())
	return t
}

// RenderSimpleTable renders a plain table for CLI output. Cells wider than
// their column are truncated with an ellipsis.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(headerStyle.Render(padRight(Truncate(c.Title, c.Width), c.Width)))
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, c := range columns {
			if i > 0 {
				b.WriteString("  ")
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(padRight(Truncate(cell, c.Width), c.Width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CheckRow is one line of `camai doctor` output.
type CheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string
	Message    string
	Suggestion string
}

// RenderCheckTable renders check results grouped by category.
func RenderCheckTable(rows []CheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	categories := make(map[string][]CheckRow)
	var order []string
	for _, row := range rows {
		if _, ok := categories[row.Category]; !ok {
			order = append(order, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var b strings.Builder
	for _, cat := range order {
		b.WriteString(headerStyle.Render(cat) + "\n")
		for _, row := range categories[cat] {
			var icon string
			switch row.Status {
			case "pass":
				icon = SuccessStyle().Render(SymbolComplete)
			case "warn":
				icon = WarningStyle().Render(SymbolComplete)
			case "fail":
				icon = ErrorStyle().Render(SymbolFail)
			default:
				icon = MutedStyle().Render(SymbolPending)
			}
			b.WriteString("  " + icon + " " + row.Message + "\n")
			if row.Suggestion != "" && row.Status != "pass" {
				b.WriteString("    " + MutedStyle().Render(row.Suggestion) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Truncate shortens s to width visible cells, ending with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// Package export writes the analysis log to spreadsheet files, the same
// shape the backend's "Excel Sheet" integration appends to.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/camai/camai/internal/domain"
)

// LogSheet is the name of the worksheet WriteLogs creates.
const LogSheet = "Logs"

// LogHeaders are the column titles, in order.
var LogHeaders = []string{"Time", "Monitor", "Monitor ID", "Type", "Status", "Alert", "Image URL", "Log ID"}

var columnWidths = []float64{20, 24, 12, 14, 22, 8, 40, 12}

// WriteLogs writes logs as a single-sheet workbook to w, one row per entry
// in the order given, under a frozen header row.
func WriteLogs(w io.Writer, logs []domain.LogEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LogSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, 1, toRow(LogHeaders)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(LogHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(LogSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(LogSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, l := range logs {
		if err := setRow(f, i+2, logRow(l)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(LogSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func logRow(l domain.LogEntry) []interface{} {
	ts := l.RawTimestamp
	if l.HasTimestamp() {
		ts = l.Timestamp.Format("2006-01-02 15:04:05")
	}
	alert := "No"
	if l.IsAlert() {
		alert = "Yes"
	}
	return []interface{}{
		ts,
		l.MonitorName,
		l.MonitorID,
		string(l.DisplayType()),
		l.Result.Headline(),
		alert,
		l.ImageURL,
		l.ID,
	}
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(LogSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

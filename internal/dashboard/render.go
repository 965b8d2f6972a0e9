package dashboard

import (
	"fmt"
	"strings"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/ui"
)

const timeLayout = "15:04:05"

// FormatTimestamp renders a log time for display, falling back to the raw
// backend value when it did not parse.
func FormatTimestamp(l domain.LogEntry) string {
	if l.HasTimestamp() {
		return l.Timestamp.Format("Jan 02 " + timeLayout)
	}
	if l.RawTimestamp == "" {
		return "unknown time"
	}
	return l.RawTimestamp
}

// RenderLogHeader renders the one-line summary of a log entry.
func RenderLogHeader(l domain.LogEntry) string {
	alert := l.IsAlert()
	marker := StatusOKStyle.Render(ui.SymbolComplete)
	if alert {
		marker = StatusAlertStyle.Render(ui.SymbolAlert)
	}
	return fmt.Sprintf("%s %s  %s  %s  %s",
		marker,
		MutedStyle.Render(FormatTimestamp(l)),
		ValueStyle.Bold(true).Render(l.MonitorName),
		LabelStyle.Render(string(l.DisplayType())),
		verdictStyle(alert).Render(l.Result.Headline()),
	)
}

// RenderLogEntry renders the header plus the type-specific body.
func RenderLogEntry(l domain.LogEntry, width int) string {
	body := RenderResult(l.Result, width)
	if l.ImageURL != "" {
		body += "\n" + MutedStyle.Render("image: "+l.ImageURL)
	}
	return RenderLogHeader(l) + "\n" + indent(body, "    ")
}

// RenderResult renders an analysis result by its monitor type. Results
// that failed to decode are shown as indented JSON.
func RenderResult(r domain.Result, width int) string {
	switch {
	case r.Quantifier != nil:
		return renderQuantifier(r.Quantifier, width)
	case r.Detector != nil:
		return renderDetector(r.Detector, width)
	case r.Process != nil:
		return renderProcess(r.Process, width)
	case r.Empty():
		return MutedStyle.Render("(no result)")
	default:
		return MutedStyle.Render(r.PrettyRaw())
	}
}

func renderQuantifier(q *domain.QuantifierResult, width int) string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Overall: ") + verdictStyle(q.OverallStatus != domain.OverallOK).Render(q.OverallStatus))
	if len(q.Sections) == 0 {
		b.WriteString("\n" + MutedStyle.Render("no sections reported"))
		return b.String()
	}

	cols := []ui.TableColumn{
		{Title: "Section", Width: 12},
		{Title: "Content", Width: clamp(width-56, 10, 24)},
		{Title: "Strategy", Width: 8},
		{Title: "Current/Ideal", Width: 16},
		{Title: "Status", Width: 8},
	}
	rows := make([][]string, 0, len(q.Sections))
	for _, s := range q.Sections {
		rows = append(rows, []string{
			s.SectionID,
			s.DetectedContent,
			s.Strategy,
			fmt.Sprintf("%s/%s %s", formatNumber(s.CurrentValue), formatNumber(s.IdealValue), s.Unit),
			s.Status,
		})
	}
	b.WriteString("\n" + strings.TrimRight(ui.RenderSimpleTable(cols, rows), "\n"))
	return b.String()
}

func renderDetector(d *domain.DetectorResult, width int) string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Compliance: ") + verdictStyle(d.ComplianceStatus == domain.ComplianceFail).Render(d.ComplianceStatus))
	if len(d.Detections) == 0 {
		b.WriteString("\n" + MutedStyle.Render("no checks reported"))
		return b.String()
	}
	for _, det := range d.Detections {
		mark := StatusOKStyle.Render(ui.SymbolSuccess)
		if !det.IsCompliant {
			mark = StatusAlertStyle.Render(ui.SymbolFail)
		}
		fmt.Fprintf(&b, "\n%s %s %s", mark, det.RuleChecked, MutedStyle.Render(fmt.Sprintf("(%.0f%%)", det.Confidence*100)))
		if det.Evidence != "" {
			b.WriteString("\n  " + MutedStyle.Render(ui.Truncate(det.Evidence, clamp(width-8, 20, 120))))
		}
	}
	return b.String()
}

func renderProcess(p *domain.ProcessResult, width int) string {
	var b strings.Builder
	if p.ProcessName != "" {
		b.WriteString(LabelStyle.Render("Process: ") + p.ProcessName + "\n")
	}
	b.WriteString(LabelStyle.Render("Stage: ") + p.CurrentStage + "\n")
	b.WriteString(ui.RenderProgressBar(p.ProgressPercentage, clamp(width-20, 10, 40)))
	if len(p.AnomaliesDetected) > 0 {
		b.WriteString("\n" + StatusAlertStyle.Render("Anomalies:"))
		for _, a := range p.AnomaliesDetected {
			b.WriteString("\n  " + ui.SymbolAlert + " " + a)
		}
	}
	if p.VisualReasoning != "" {
		b.WriteString("\n" + MutedStyle.Render(ui.Truncate(p.VisualReasoning, clamp(width-8, 20, 160))))
	}
	return b.String()
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/stats"
	"github.com/camai/camai/internal/ui"
	"github.com/camai/camai/internal/webhook"
	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete screen.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.View())
	case m.overlay != nil:
		b.WriteString(m.renderOverlay())
	default:
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderBody() string {
	switch m.tab {
	case TabCameras:
		return m.renderCameras()
	case TabLogs:
		return m.logView.View()
	case TabSettings:
		return m.renderSettings()
	default:
		return m.renderOverview()
	}
}

// renderHeader renders the title bar with backend and refresh state.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("camai")
	if m.version != "" {
		title += MutedStyle.Render(" " + m.version)
	}

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case m.lastUpdate.IsZero():
		updateText = "never"
	case secs <= 0:
		updateText = "just now"
	default:
		updateText = fmt.Sprintf("%ds ago", secs)
	}

	info := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | %s | last update %s", m.client.BaseURL(), m.healthText(), updateText))

	return HeaderStyle.Render(title + info)
}

func (m Model) healthText() string {
	switch {
	case !m.pinged:
		return "checking"
	case m.online:
		return "online"
	default:
		return "offline"
	}
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(Tabs))
	for i, t := range Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, TabActiveStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderOverview renders the Dashboard tab: widgets, chart, latest logs.
func (m Model) renderOverview() string {
	opts := stats.Options{
		Window:         m.cfg.Dashboard.AlertWindow,
		HistogramHours: m.cfg.Dashboard.HistogramHours,
		RecentLogs:     m.cfg.Dashboard.RecentLogs,
	}
	sum := stats.Summarize(m.store.Monitors(), m.store.Logs(), m.now(), opts)

	alertValue := CardValueStyle.Render(fmt.Sprintf("%d", sum.AlertsInWindow))
	if sum.AlertsInWindow > 0 {
		alertValue = StatusAlertStyle.Render(fmt.Sprintf("%d", sum.AlertsInWindow))
	}

	systemValue := StatusOfflineStyle.Render(ui.SymbolPending + " Checking")
	if m.pinged {
		if m.online {
			systemValue = StatusOKStyle.Render(ui.SymbolComplete + " Online")
		} else {
			systemValue = StatusAlertStyle.Render(ui.SymbolFail + " Offline")
		}
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Alerts ("+sum.WindowLabel+")", alertValue),
		renderCard("Active Monitors", CardValueStyle.Render(fmt.Sprintf("%d", sum.ActiveMonitors))+"  "+renderStatusCounts(sum.ByStatus)),
		renderCard("System Status", systemValue),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")

	b.WriteString(SectionTitleStyle.Render(fmt.Sprintf("Alerts per hour (last %d hours)", len(sum.Histogram))))
	b.WriteString("\n")
	bars := make([]ui.Bar, len(sum.Histogram))
	for i, bucket := range sum.Histogram {
		bars[i] = ui.Bar{Label: bucket.Label, Value: bucket.Count}
	}
	b.WriteString(ui.RenderBarChart(bars, 6, ColorAccent))
	b.WriteString("\n")

	b.WriteString(SectionTitleStyle.Render("Latest logs"))
	b.WriteString("\n")
	if len(sum.Recent) == 0 {
		b.WriteString(MutedStyle.Render("No analysis logs yet"))
	}
	for _, l := range sum.Recent {
		b.WriteString(RenderLogHeader(l))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(title, value string) string {
	return CardStyle.Render(CardTitleStyle.Render(title) + "\n" + value)
}

func renderStatusCounts(byStatus map[domain.MonitorStatus]int) string {
	if len(byStatus) == 0 {
		return ""
	}
	keys := make([]string, 0, len(byStatus))
	for s := range byStatus {
		keys = append(keys, string(s))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s := domain.MonitorStatus(k)
		parts = append(parts, StatusStyle(s).Render(fmt.Sprintf("%s %d", StatusIndicator(s), byStatus[s])))
	}
	return strings.Join(parts, " ")
}

// renderCameras renders the Cameras tab.
func (m Model) renderCameras() string {
	if len(m.table.Rows()) == 0 {
		return MutedStyle.Render("No monitors yet. Press n to create one.")
	}
	return m.table.View()
}

// renderLogFeed renders every cached log for the Logs tab viewport.
func (m Model) renderLogFeed() string {
	logs := m.store.Logs()
	width := m.width
	if width == 0 {
		width = 80
	}

	var b strings.Builder
	shown := 0
	for _, l := range logs {
		if m.alertsOnly && !l.IsAlert() {
			continue
		}
		b.WriteString(RenderLogEntry(l, width))
		b.WriteString("\n\n")
		shown++
	}
	if shown == 0 {
		if m.alertsOnly {
			return MutedStyle.Render("No alerts in the log feed")
		}
		return MutedStyle.Render("No analysis logs yet")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSettings renders the effective configuration.
func (m Model) renderSettings() string {
	rows := []struct{ key, value string }{
		{"Backend", m.client.BaseURL()},
		{"Request timeout", m.cfg.API.Timeout.String()},
		{"Log poll interval", m.cfg.Dashboard.PollInterval.String()},
		{"Alert window", m.cfg.Dashboard.AlertWindow.String()},
		{"Chart hours", fmt.Sprintf("%d", m.cfg.Dashboard.HistogramHours)},
		{"Latest logs shown", fmt.Sprintf("%d", m.cfg.Dashboard.RecentLogs)},
		{"Log directory", m.cfg.Logging.Dir},
		{"Log level", m.cfg.Logging.Level},
		{"Color", m.cfg.Output.Color},
		{"Bridge directory", m.cfg.Bridge.Dir},
	}

	keyStyle := LabelStyle.Width(20)
	var b strings.Builder
	b.WriteString(SectionTitleStyle.Render("Settings"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(keyStyle.Render(r.key) + ValueStyle.Render(r.value) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("Edit with `camai config set <key> <value>` and restart the dashboard."))
	return b.String()
}

// showWebhook opens the integration overlay for the selected monitor.
func (m *Model) showWebhook() {
	mon, ok := m.requireSelection()
	if !ok {
		return
	}
	d := webhook.Describe(m.client.BaseURL(), mon)
	m.overlay = &overlay{title: "Integration API", body: d.Render()}
}

func (m Model) renderOverlay() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	content := titleStyle.Render(m.overlay.title) + "\n\n" +
		strings.TrimRight(m.overlay.body, "\n") + "\n\n" +
		MutedStyle.Render("esc to close")
	return OverlayStyle.Width(m.overlayWidth()).Render(content)
}

func (m Model) renderStatusLine() string {
	if m.loader.Active {
		return StatusLineStyle.Render(m.loader.View())
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return StatusLineErrorStyle.Render(ui.SymbolFail + " " + m.status)
	}
	return StatusLineStyle.Render(m.status)
}

// renderFooter renders the keyboard hints for the current tab.
func (m Model) renderFooter() string {
	var hints []string
	switch {
	case m.form != nil:
		hints = []string{"enter next", "esc cancel"}
	case m.overlay != nil:
		hints = []string{"esc close"}
	case m.tab == TabCameras:
		hints = []string{"n new", "e edit", "d delete", "t test", "x trigger", "w webhook", "b bridge"}
	case m.tab == TabLogs:
		hints = []string{"↑↓ scroll", "a alerts only"}
	default:
		hints = []string{"n new", "r refresh"}
	}
	hints = append(hints, "tab switch", "? help", "q quit")
	return FooterStyle.Render(strings.Join(hints, " | "))
}

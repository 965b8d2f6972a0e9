package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/stats"
	"github.com/camai/camai/internal/ui"
	"github.com/camai/camai/internal/util"
	"github.com/spf13/cobra"
)

var (
	statsWindow string
	statsHours  int
	statsRecent int
)

// now is swapped in tests.
var now = time.Now

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize alerts and monitors",
	Long: `Print the numbers the dashboard shows: alerts in the look-back window,
monitor counts by status, and alerts per hour of the day.

Hours are bucketed by hour of day, so with more than a day of logs an
alert from yesterday 10:00 counts toward today's 10:00 bar.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsCommand(cmd)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsWindow, "window", "", "alert look-back window (default: dashboard.alert_window)")
	statsCmd.Flags().IntVar(&statsHours, "hours", 0, "hourly buckets to chart, 1-24 (default: dashboard.histogram_hours)")
	statsCmd.Flags().IntVar(&statsRecent, "recent", -1, "latest log entries to include (default: dashboard.recent_logs)")
	rootCmd.AddCommand(statsCmd)
}

func statsOptions() (stats.Options, error) {
	d := current.cfg.Dashboard
	opts := stats.Options{Window: d.AlertWindow, HistogramHours: d.HistogramHours, RecentLogs: d.RecentLogs}

	if statsWindow != "" {
		w, err := ParseDuration("window", statsWindow)
		if err != nil {
			return opts, err
		}
		opts.Window = w
	}
	if statsHours != 0 {
		if statsHours < 1 || statsHours > 24 {
			return opts, errors.New(errors.ErrValidation,
				fmt.Sprintf("--hours must be between 1 and 24, got %d", statsHours),
				"Hour-of-day buckets repeat after 24")
		}
		opts.HistogramHours = statsHours
	}
	if statsRecent >= 0 {
		opts.RecentLogs = statsRecent
	}
	return opts, nil
}

func statsCommand(cmd *cobra.Command) error {
	opts, err := statsOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	monitors, err := current.client.ListMonitors(ctx)
	if err != nil {
		return err
	}
	logs, err := current.client.ListLogs(ctx)
	if err != nil {
		return err
	}

	summary := stats.Summarize(monitors, logs, now(), opts)
	out := cmd.OutOrStdout()
	if machineMode {
		return WriteJSONSuccess(out, summary)
	}
	renderStats(out, summary)
	return nil
}

func renderStats(out io.Writer, s stats.Summary) {
	label := ui.MutedStyle()
	value := ui.BoldStyle()

	alerts := value.Render(fmt.Sprintf("%d", s.AlertsInWindow))
	if s.AlertsInWindow > 0 {
		alerts = ui.ErrorStyle().Bold(true).Render(fmt.Sprintf("%d", s.AlertsInWindow))
	}
	fmt.Fprintf(out, "%s %s\n", label.Render(fmt.Sprintf("%-18s", "Alerts ("+s.WindowLabel+")")), alerts)
	fmt.Fprintf(out, "%s %s  %s\n", label.Render(fmt.Sprintf("%-18s", "Active monitors")),
		value.Render(fmt.Sprintf("%d", s.ActiveMonitors)), label.Render(statusBreakdown(s.ByStatus)))
	fmt.Fprintf(out, "%s %s\n", label.Render(fmt.Sprintf("%-18s", "Log entries")), value.Render(fmt.Sprintf("%d", s.TotalLogs)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, ui.BoldStyle().Render("Alerts per hour (last "+util.Count(len(s.Histogram), "hour", "hours")+")"))
	bars := make([]ui.Bar, len(s.Histogram))
	counts := make([]int, len(s.Histogram))
	for i, b := range s.Histogram {
		bars[i] = ui.Bar{Label: b.Label, Value: b.Count}
		counts[i] = b.Count
	}
	fmt.Fprintln(out, ui.RenderBarChart(bars, 6, ui.ColorNeonPink))
	fmt.Fprintf(out, "%s %s\n", label.Render("trend"), ui.RenderSparkline(counts, len(counts)))

	if len(s.Recent) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.BoldStyle().Render("Latest logs"))
		for _, l := range s.Recent {
			fmt.Fprintln(out, "  "+dashboard.RenderLogHeader(l))
		}
	}
}

// statusBreakdown renders "OK 2 · ALERT 1" with known statuses first.
func statusBreakdown(by map[domain.MonitorStatus]int) string {
	known := []domain.MonitorStatus{domain.StatusOK, domain.StatusAlert, domain.StatusOffline}
	var parts []string
	for _, st := range known {
		if n := by[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", st, n))
		}
	}

	var other []string
	for st := range by {
		if st != domain.StatusOK && st != domain.StatusAlert && st != domain.StatusOffline {
			other = append(other, string(st))
		}
	}
	sort.Strings(other)
	for _, st := range other {
		name := st
		if name == "" {
			name = "UNKNOWN"
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, by[domain.MonitorStatus(st)]))
	}
	return strings.Join(parts, " · ")
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/export"
	"github.com/camai/camai/internal/poller"
	"github.com/camai/camai/internal/ui"
	"github.com/camai/camai/internal/util"
	"github.com/spf13/cobra"
)

var (
	logsLimit    int
	logsType     string
	logsAlerts   bool
	logsMonitor  string
	logsWatch    bool
	logsInterval string
	logsExport   string
)

// logsCmd implements the `camai logs` command.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the analysis log",
	Long: `Show the analysis log the backend records for every monitor evaluation,
newest first.

With --watch the log is polled and new entries are printed as they arrive
(oldest first) until interrupted. --json in watch mode prints one JSON
object per line.

Examples:
  camai logs --limit 5
  camai logs --alerts --type DETECTOR
  camai logs --watch --monitor "Shelf A"
  camai logs --alerts --limit 0 --export alerts.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return logsCommand(cmd)
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "entries to show, 0 for all")
	logsCmd.Flags().StringVar(&logsType, "type", "", "only entries from this monitor type")
	logsCmd.Flags().BoolVar(&logsAlerts, "alerts", false, "only entries that raised an alert")
	logsCmd.Flags().StringVar(&logsMonitor, "monitor", "", "only entries for this monitor id or name")
	logsCmd.Flags().BoolVarP(&logsWatch, "watch", "w", false, "keep polling for new entries")
	logsCmd.Flags().StringVar(&logsInterval, "interval", "", "poll interval for --watch (default: dashboard.poll_interval)")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "write the matching entries to an .xlsx file")
	rootCmd.AddCommand(logsCmd)
}

// logFilter selects log entries.
type logFilter struct {
	typ     domain.MonitorType
	alerts  bool
	monitor string
}

func newLogFilter(typ string, alerts bool, monitor string) (logFilter, error) {
	f := logFilter{alerts: alerts, monitor: strings.TrimSpace(monitor)}
	if typ != "" {
		t, err := domain.ParseMonitorType(typ)
		if err != nil {
			return f, errors.WrapWithCode(err, errors.ErrValidation, "Invalid --type", "Use QUANTIFIER, DETECTOR or PROCESS")
		}
		f.typ = t
	}
	return f, nil
}

func (f logFilter) match(l domain.LogEntry) bool {
	if f.typ != "" && l.DisplayType() != f.typ {
		return false
	}
	if f.alerts && !l.IsAlert() {
		return false
	}
	if f.monitor != "" && l.MonitorID != f.monitor && !strings.EqualFold(l.MonitorName, f.monitor) {
		return false
	}
	return true
}

func (f logFilter) apply(logs []domain.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(logs))
	for _, l := range logs {
		if f.match(l) {
			out = append(out, l)
		}
	}
	return out
}

func logsCommand(cmd *cobra.Command) error {
	filter, err := newLogFilter(logsType, logsAlerts, logsMonitor)
	if err != nil {
		return err
	}
	if logsLimit < 0 {
		return errors.New(errors.ErrValidation, "--limit cannot be negative", "Use 0 to show every entry")
	}

	if logsWatch {
		if logsExport != "" {
			return errors.New(errors.ErrValidation, "--export cannot be combined with --watch", "Drop --watch to export a snapshot")
		}
		return watchLogs(cmd, filter)
	}

	logs, err := current.client.ListLogs(cmd.Context())
	if err != nil {
		return err
	}
	logs = filter.apply(logs)
	if logsLimit > 0 && len(logs) > logsLimit {
		logs = logs[:logsLimit]
	}

	out := cmd.OutOrStdout()
	if logsExport != "" {
		return exportLogs(out, logsExport, logs)
	}
	if machineMode {
		return WriteJSONSuccess(out, logs)
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, ui.MutedStyle().Render("No matching log entries"))
		return nil
	}
	width := outputWidth(out)
	for _, l := range logs {
		fmt.Fprintln(out, dashboard.RenderLogEntry(l, width))
	}
	return nil
}

// exportResult is the --json output of `logs --export`.
type exportResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

func exportLogs(out io.Writer, path string, logs []domain.LogEntry) error {
	path = config.ExpandTilde(path)
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Can't create %s", path),
			"Pick a writable path for --export")
	}
	if err := export.WriteLogs(f, logs); err != nil {
		f.Close()
		return errors.WrapWithCode(err, errors.ErrExec, "Export failed", "")
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec, fmt.Sprintf("Can't write %s", path), "")
	}

	if machineMode {
		return WriteJSONSuccess(out, exportResult{Path: path, Entries: len(logs)})
	}
	fmt.Fprintf(out, "%s Exported %s to %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess),
		util.Count(len(logs), "log entry", "log entries"), path)
	return nil
}

func watchLogs(cmd *cobra.Command, filter logFilter) error {
	interval := current.cfg.Dashboard.PollInterval
	if logsInterval != "" {
		d, err := ParseDuration("interval", logsInterval)
		if err != nil {
			return err
		}
		interval = d
	}

	w := &logWatcher{
		fetch:  current.client.ListLogs,
		filter: filter,
		limit:  logsLimit,
		out:    cmd.OutOrStdout(),
		seen:   make(map[string]bool),
	}
	p := poller.New(interval, w.poll)
	p.OnError = func(err error) {
		current.log.Warn("log poll failed: %s", errors.Summary(err))
	}

	if !machineMode {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.MutedStyle().Render(
			fmt.Sprintf("Watching %s every %s, Ctrl+C to stop", current.client.BaseURL(), interval)))
	}
	if err := p.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}

// logWatcher prints entries it has not printed before.
type logWatcher struct {
	fetch  func(ctx context.Context) ([]domain.LogEntry, error)
	filter logFilter
	limit  int // applies to the first poll only
	out    io.Writer
	seen   map[string]bool
	primed bool
}

func (w *logWatcher) poll(ctx context.Context) error {
	logs, err := w.fetch(ctx)
	if err != nil {
		return err
	}

	var fresh []domain.LogEntry
	for _, l := range w.filter.apply(logs) {
		if w.seen[w.key(l)] {
			continue
		}
		w.seen[w.key(l)] = true
		fresh = append(fresh, l)
	}
	if !w.primed && w.limit > 0 && len(fresh) > w.limit {
		fresh = fresh[:w.limit]
	}
	w.primed = true

	// Logs arrive newest first; print in the order they happened.
	for i := len(fresh) - 1; i >= 0; i-- {
		if err := w.print(fresh[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *logWatcher) key(l domain.LogEntry) string {
	if l.ID != "" {
		return l.ID
	}
	return l.MonitorID + "@" + l.RawTimestamp
}

func (w *logWatcher) print(l domain.LogEntry) error {
	if machineMode {
		return json.NewEncoder(w.out).Encode(l)
	}
	_, err := fmt.Fprintln(w.out, dashboard.RenderLogEntry(l, outputWidth(w.out)))
	return err
}

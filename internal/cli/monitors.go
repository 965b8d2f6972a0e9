package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/state"
	"github.com/camai/camai/internal/ui"
	"github.com/camai/camai/internal/util"
	"github.com/camai/camai/internal/webhook"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	createFlags   = &dashboard.MonitorFormData{}
	updateFlags   = &dashboard.MonitorFormData{}
	deleteYes     bool
	testFlags     = &dashboard.ScanFormData{}
	testMonitor   string
	triggerImage  string
	bridgeOutput  string
	listTypeFlag  string
	listAlertOnly bool
)

var monitorsCmd = &cobra.Command{
	Use:     "monitors",
	Aliases: []string{"monitor", "mon"},
	Short:   "Manage camera monitors",
	Long: `A monitor pairs a camera source with a natural-language rule that the
backend evaluates on a schedule or when triggered.

Monitors can be referenced by id, id prefix, or name.`,
}

var monitorsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List monitors",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsList(cmd)
	},
}

var monitorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a monitor",
	Long: `Create a monitor from flags, or from an interactive form when no flags
are given and stdin is a terminal.

Examples:
  camai monitors create --name "Shelf A" --rule "Count boxes on each shelf"
  camai monitors create --name Gate --type DETECTOR --source "Event Trigger" \
      --rule "Everyone wears a hard hat" --integrations Email,WhatsApp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsCreate(cmd)
	},
}

var monitorsUpdateCmd = &cobra.Command{
	Use:   "update <monitor>",
	Short: "Update a monitor",
	Long: `Update a monitor. Only the flags you pass change; the rest keep their
current values. With no flags, an interactive form opens prefilled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsUpdate(cmd, args[0])
	},
}

var monitorsDeleteCmd = &cobra.Command{
	Use:     "delete <monitor>",
	Aliases: []string{"rm"},
	Short:   "Delete a monitor",
	Long: `Delete a monitor. Asks for confirmation unless --yes is given.

The monitor is considered gone even if the backend does not confirm the
delete; the failure is reported as a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsDelete(cmd, args[0])
	},
}

var monitorsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test a rule against an image",
	Long: `Send an image and a rule to the backend and print the analysis.
Nothing is saved.

Examples:
  camai monitors test --image shelf.jpg --rule "Count the boxes"
  camai monitors test --monitor "Shelf A" --image now.jpg
  camai monitors test --mode DETECTOR --rule "Hard hats on" --image gate.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsTest(cmd)
	},
}

var monitorsTriggerCmd = &cobra.Command{
	Use:   "trigger <monitor>",
	Short: "Run a monitor once",
	Long: `Run a monitor once, the way an external system would through its
webhook. Without --image the backend grabs a frame from the monitor's camera.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsTrigger(cmd, args[0])
	},
}

var monitorsWebhookCmd = &cobra.Command{
	Use:   "webhook <monitor>",
	Short: "Show how to trigger a monitor from another system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsWebhook(cmd, args[0])
	},
}

var monitorsBridgeCmd = &cobra.Command{
	Use:   "bridge <monitor>",
	Short: "Download the monitor's bridge script",
	Long: `Download the Python bridge script the backend generates for a monitor.
The script forwards frames from a local camera to the trigger endpoint.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorsBridge(cmd, args[0])
	},
}

func init() {
	monitorsListCmd.Flags().StringVar(&listTypeFlag, "type", "", "only monitors of this type")
	monitorsListCmd.Flags().BoolVar(&listAlertOnly, "alerts", false, "only monitors whose status is not OK")

	AddMonitorFlags(monitorsCreateCmd, createFlags)
	AddMonitorFlags(monitorsUpdateCmd, updateFlags)

	monitorsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	monitorsTestCmd.Flags().StringVar(&testFlags.Image, "image", "", "image to analyze")
	monitorsTestCmd.Flags().StringVar(&testFlags.IdealImage, "ideal-image", "", "reference image of the ideal state (QUANTIFIER)")
	monitorsTestCmd.Flags().StringVar(&testFlags.Mode, "mode", string(domain.TypeQuantifier), "QUANTIFIER, DETECTOR or PROCESS")
	monitorsTestCmd.Flags().StringVar(&testFlags.Rule, "rule", "", "rule to evaluate")
	monitorsTestCmd.Flags().StringVar(&testMonitor, "monitor", "", "take mode, rule and reference image from this monitor")

	monitorsTriggerCmd.Flags().StringVar(&triggerImage, "image", "", "image to analyze instead of a camera frame")

	monitorsBridgeCmd.Flags().StringVarP(&bridgeOutput, "output", "o", "", "directory to write the script to (default: bridge.dir)")

	monitorsCmd.AddCommand(monitorsListCmd, monitorsCreateCmd, monitorsUpdateCmd, monitorsDeleteCmd,
		monitorsTestCmd, monitorsTriggerCmd, monitorsWebhookCmd, monitorsBridgeCmd)
	rootCmd.AddCommand(monitorsCmd)
}

var monitorColumns = []ui.TableColumn{
	{Title: "ID", Width: 8},
	{Title: "Name", Width: 20},
	{Title: "Type", Width: 10},
	{Title: "Source", Width: 15},
	{Title: "Interval", Width: 8},
	{Title: "Status", Width: 9},
	{Title: "Integrations", Width: 24},
}

func monitorRow(m domain.Monitor) []string {
	interval := "-"
	if m.UsesInterval() && m.Interval > 0 {
		interval = domain.FormatInterval(m.Interval) + "m"
	}
	return []string{
		shortID(m.ID),
		m.Name,
		string(m.Type),
		m.Source,
		interval,
		string(m.Status),
		util.JoinOrDefault(domain.CleanIntegrations(m.Integrations), "-"),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func monitorsList(cmd *cobra.Command) error {
	monitors, err := current.client.ListMonitors(cmd.Context())
	if err != nil {
		return err
	}

	if listTypeFlag != "" {
		typ, err := domain.ParseMonitorType(listTypeFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrValidation, "Invalid --type", "Use QUANTIFIER, DETECTOR or PROCESS")
		}
		monitors = filterMonitors(monitors, func(m domain.Monitor) bool { return m.Type == typ })
	}
	if listAlertOnly {
		monitors = filterMonitors(monitors, func(m domain.Monitor) bool { return m.Status != domain.StatusOK })
	}

	out := cmd.OutOrStdout()
	if machineMode {
		return WriteJSONSuccess(out, monitors)
	}
	if len(monitors) == 0 {
		fmt.Fprintln(out, ui.MutedStyle().Render("No monitors. Create one with 'camai monitors create'."))
		return nil
	}

	rows := make([][]string, len(monitors))
	for i, m := range monitors {
		rows[i] = monitorRow(m)
	}
	fmt.Fprint(out, ui.RenderSimpleTable(monitorColumns, rows))
	return nil
}

func filterMonitors(in []domain.Monitor, keep func(domain.Monitor) bool) []domain.Monitor {
	out := make([]domain.Monitor, 0, len(in))
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// findMonitor resolves ref as an id, a unique id prefix, or a unique name.
// The full list is returned for callers that seed a store with it.
func findMonitor(ctx context.Context, ref string) (domain.Monitor, []domain.Monitor, error) {
	monitors, err := current.client.ListMonitors(ctx)
	if err != nil {
		return domain.Monitor{}, nil, err
	}
	m, err := matchMonitor(monitors, ref)
	return m, monitors, err
}

func matchMonitor(monitors []domain.Monitor, ref string) (domain.Monitor, error) {
	ref = strings.TrimSpace(ref)
	for _, m := range monitors {
		if m.ID == ref {
			return m, nil
		}
	}

	var matches []domain.Monitor
	for _, m := range monitors {
		if strings.EqualFold(m.Name, ref) || (len(ref) >= 4 && strings.HasPrefix(m.ID, ref)) {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		names := make([]string, len(monitors))
		for i, m := range monitors {
			names[i] = m.Name
		}
		hint := "Run 'camai monitors list' to see monitor ids and names"
		if similar := util.SuggestSimilar(ref, names, 3); len(similar) > 0 {
			hint = fmt.Sprintf("Did you mean '%s'?", similar[0])
		}
		return domain.Monitor{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("No monitor matches '%s'", ref), hint)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = fmt.Sprintf("%s (%s)", m.Name, shortID(m.ID))
		}
		return domain.Monitor{}, errors.New(errors.ErrValidation,
			fmt.Sprintf("'%s' matches %d monitors: %s", ref, len(matches), strings.Join(names, ", ")),
			"Use the full monitor id")
	}
}

// runForm runs a huh form in the terminal. ok is false when the user
// cancels.
func runForm(f *huh.Form) (ok bool, err error) {
	if err := f.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrExec, "The form could not run", "Pass the values as flags instead")
	}
	return true, nil
}

func monitorsCreate(cmd *cobra.Command) error {
	d := createFlags
	if !monitorFlagsChanged(cmd.Flags()) {
		if !interactive() {
			return errors.New(errors.ErrValidation,
				"Nothing to create",
				"Pass at least --name and --rule, or run in a terminal for the interactive form")
		}
		d = dashboard.NewMonitorFormData(nil)
		ok, err := runForm(dashboard.MonitorForm(d, "New monitor"))
		if err != nil || !ok {
			return cancelled(cmd, err)
		}
	}

	in, err := parseMonitorInput(d)
	if err != nil {
		return err
	}
	m, err := current.client.CreateMonitor(cmd.Context(), in)
	if err != nil {
		return err
	}
	return printMonitor(cmd, "Created", m)
}

func monitorsUpdate(cmd *cobra.Command, ref string) error {
	existing, _, err := findMonitor(cmd.Context(), ref)
	if err != nil {
		return err
	}

	d := dashboard.NewMonitorFormData(&existing)
	if monitorFlagsChanged(cmd.Flags()) {
		overlayMonitorFlags(cmd.Flags(), d, updateFlags)
	} else {
		if !interactive() {
			return errors.New(errors.ErrValidation,
				"Nothing to update",
				"Pass the flags to change, e.g. --rule or --interval")
		}
		ok, err := runForm(dashboard.MonitorForm(d, "Edit "+existing.Name))
		if err != nil || !ok {
			return cancelled(cmd, err)
		}
	}

	in, err := parseMonitorInput(d)
	if err != nil {
		return err
	}
	m, err := current.client.UpdateMonitor(cmd.Context(), existing.ID, in)
	if err != nil {
		return err
	}
	return printMonitor(cmd, "Updated", m)
}

// DeleteResult is the --json form of `monitors delete`.
type DeleteResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
	Warning   string `json:"warning,omitempty"`
}

func monitorsDelete(cmd *cobra.Command, ref string) error {
	m, monitors, err := findMonitor(cmd.Context(), ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !deleteYes {
		if !interactive() {
			return errors.New(errors.ErrValidation,
				fmt.Sprintf("Refusing to delete %s without confirmation", m.Name),
				"Pass --yes to delete non-interactively")
		}
		confirm := false
		ok, err := runForm(dashboard.ConfirmDeleteForm(m.Name, &confirm))
		if err != nil {
			return err
		}
		if !ok || !confirm {
			fmt.Fprintf(out, "Kept %s\n", m.Name)
			return nil
		}
	}

	store := state.New(current.client, state.WithLogger(current.log.Named("state")))
	store.SetMonitors(monitors)
	res := DeleteResult{ID: m.ID, Name: m.Name, Confirmed: true}
	if err := store.DeleteMonitor(cmd.Context(), m.ID); err != nil {
		res.Confirmed = false
		res.Warning = errors.Summary(err)
	}

	if machineMode {
		return WriteJSONSuccess(out, res)
	}
	fmt.Fprintf(out, "%s Deleted %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), m.Name)
	if !res.Confirmed {
		fmt.Fprintf(out, "  %s\n", ui.WarningStyle().Render("The backend did not confirm: "+res.Warning))
	}
	return nil
}

// ScanOutput is the --json form of `monitors test` and `monitors trigger`.
type ScanOutput struct {
	Mode     domain.MonitorType `json:"mode"`
	Headline string             `json:"headline"`
	Alert    bool               `json:"alert"`
	Message  string             `json:"message,omitempty"`
	LogID    string             `json:"log_id,omitempty"`
	Result   domain.Result      `json:"result"`
}

func monitorsTest(cmd *cobra.Command) error {
	d := *testFlags
	if testMonitor != "" {
		m, _, err := findMonitor(cmd.Context(), testMonitor)
		if err != nil {
			return err
		}
		seed := dashboard.NewScanFormData(&m)
		if !cmd.Flags().Changed("mode") {
			d.Mode = seed.Mode
		}
		if !cmd.Flags().Changed("rule") {
			d.Rule = seed.Rule
		}
		if !cmd.Flags().Changed("ideal-image") {
			d.IdealImage = seed.IdealImage
		}
	}

	if strings.TrimSpace(d.Image) == "" {
		if !interactive() {
			return errors.New(errors.ErrValidation,
				"A test image is required",
				"Pass --image with the path to a camera snapshot")
		}
		ok, err := runForm(dashboard.ScanForm(&d))
		if err != nil || !ok {
			return cancelled(cmd, err)
		}
	}

	var spin *ui.Spinner
	if interactive() {
		spin = ui.NewSpinner(cmd.ErrOrStderr(), "Analyzing "+filepath.Base(d.Image))
		spin.Start()
	}
	mode, result, err := dashboard.RunScan(cmd.Context(), current.client, d)
	if spin != nil {
		if err != nil {
			spin.Fail()
		} else {
			spin.Success()
		}
	}
	if err != nil {
		if _, ok := errors.As(err); !ok {
			err = errors.WrapWithCode(err, errors.ErrValidation, "Invalid --mode", "Use QUANTIFIER, DETECTOR or PROCESS")
		}
		return err
	}

	return printScan(cmd, ScanOutput{
		Mode:     mode,
		Headline: result.Headline(),
		Alert:    result.IsAlert(),
		Result:   result,
	})
}

func monitorsTrigger(cmd *cobra.Command, ref string) error {
	m, _, err := findMonitor(cmd.Context(), ref)
	if err != nil {
		return err
	}

	resp, err := dashboard.RunTrigger(cmd.Context(), current.client, m.ID, triggerImage)
	if err != nil {
		return err
	}
	current.log.Debug("trigger %s logged as %s", m.ID, resp.LogID)

	return printScan(cmd, ScanOutput{
		Mode:     m.Type,
		Headline: resp.Result.Headline(),
		Alert:    resp.Result.IsAlert(),
		Message:  resp.Message,
		LogID:    resp.LogID,
		Result:   resp.Result,
	})
}

func monitorsWebhook(cmd *cobra.Command, ref string) error {
	m, _, err := findMonitor(cmd.Context(), ref)
	if err != nil {
		return err
	}
	desc := webhook.Describe(current.client.BaseURL(), m)
	if machineMode {
		return WriteJSONSuccess(cmd.OutOrStdout(), desc)
	}
	fmt.Fprint(cmd.OutOrStdout(), desc.Render())
	return nil
}

// BridgeOutput is the --json form of `monitors bridge`.
type BridgeOutput struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func monitorsBridge(cmd *cobra.Command, ref string) error {
	m, _, err := findMonitor(cmd.Context(), ref)
	if err != nil {
		return err
	}
	dir := bridgeOutput
	if dir == "" {
		dir = current.cfg.Bridge.Dir
	}

	path, err := current.client.DownloadBridge(cmd.Context(), m.ID, dir)
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(cmd.OutOrStdout(), BridgeOutput{ID: m.ID, Path: path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved bridge script for %s to %s\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), m.Name, path)
	fmt.Fprintln(cmd.OutOrStdout(), ui.MutedStyle().Render("  Run it on the camera host: python3 "+util.ShellWord(path)))
	return nil
}

func printMonitor(cmd *cobra.Command, verb string, m domain.Monitor) error {
	out := cmd.OutOrStdout()
	if machineMode {
		return WriteJSONSuccess(out, m)
	}
	fmt.Fprintf(out, "%s %s %s (%s)\n", ui.SuccessStyle().Render(ui.SymbolSuccess), verb, m.Name, m.ID)
	fmt.Fprint(out, ui.RenderSimpleTable(monitorColumns, [][]string{monitorRow(m)}))
	return nil
}

func printScan(cmd *cobra.Command, s ScanOutput) error {
	out := cmd.OutOrStdout()
	if machineMode {
		return WriteJSONSuccess(out, s)
	}

	verdict := ui.SuccessStyle().Render(ui.SymbolSuccess + " no alert")
	if s.Alert {
		verdict = ui.ErrorStyle().Render(ui.SymbolAlert + " alert")
	}
	fmt.Fprintf(out, "%s  %s  %s\n", ui.BoldStyle().Render(string(s.Mode)), s.Headline, verdict)
	if s.Message != "" {
		fmt.Fprintln(out, ui.MutedStyle().Render(s.Message))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, dashboard.RenderResult(s.Result, outputWidth(out)))
	return nil
}

// cancelled reports a form the user backed out of. Form failures pass
// through unchanged.
func cancelled(cmd *cobra.Command, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	return nil
}

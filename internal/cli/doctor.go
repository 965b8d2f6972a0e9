package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/doctor"
	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/ui"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config and backend problems",
	Long: `Check that camai can find and parse its config, reach the backend, and
write to its log and bridge directories.

Runs even when the config is broken, so it can say what is wrong with it.
Exits non-zero when any check fails.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "create missing config and directories")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(cmd *cobra.Command) error {
	opts := doctor.Options{ConfigPath: cfgFile}

	// Config errors are reported by the config checks, not returned.
	if cfg, _, err := config.Resolve(cfgFile); err == nil {
		if apiURL != "" {
			cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
		}
		ui.ApplyColorMode(cfg.Output.Color)
		if machineMode {
			ui.DisableColors()
		}
		log := logger.NewWriter(cmd.ErrOrStderr(), logLevel())
		opts.Config = cfg
		opts.Client = api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithLogger(log.Named("api")))
	}

	checks := doctor.Collect(opts)
	results := doctor.RunAllParallel(cmd.Context(), checks)
	if doctorFix {
		results = attemptFixes(cmd, checks, results)
	}

	out := cmd.OutOrStdout()
	if machineMode {
		report := buildDoctorOutput(results)
		if doctor.HasFailures(results) {
			_ = WriteJSONError(out, ErrCodeCommandFailed, doctor.Summary(results),
				"Fix the failing checks, then run 'camai doctor' again", report)
			return errReported
		}
		return WriteJSONSuccess(out, report)
	}

	renderDoctorText(out, results)
	if doctor.HasFailures(results) {
		return errReported
	}
	return nil
}

// attemptFixes tries to fix issues where possible and re-runs what it fixed.
func attemptFixes(cmd *cobra.Command, checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	for i, result := range results {
		if !result.Fixable || result.Status == doctor.StatusPass {
			continue
		}
		if err := checks[i].Fix(); err != nil {
			results[i].Message += fmt.Sprintf(" (fix failed: %v)", err)
			continue
		}
		results[i] = doctor.RunAll(cmd.Context(), checks[i:i+1])[0]
	}
	return results
}

func buildDoctorOutput(results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(results)
	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range doctor.Categories {
		if rs, ok := grouped[cat]; ok {
			output.Categories = append(output.Categories, CategoryOutput{Name: cat, Results: rs})
		}
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

// renderDoctorText outputs results in human-readable format.
func renderDoctorText(out io.Writer, results []doctor.CheckResult) {
	fmt.Fprint(out, ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), Tagline: "Diagnostic report"}))
	fmt.Fprintln(out)

	rows := make([]ui.CheckRow, 0, len(results))
	for _, cat := range doctor.Categories {
		for _, r := range doctor.GroupByCategory(results)[cat] {
			rows = append(rows, ui.CheckRow{
				Status:     r.Status.String(),
				Category:   r.Category,
				Message:    r.Message,
				Suggestion: r.Suggestion,
			})
		}
	}
	fmt.Fprint(out, ui.RenderCheckTable(rows))

	if !doctor.HasIssues(results) {
		fmt.Fprintf(out, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
		return
	}
	fmt.Fprintf(out, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))
	if fixable := doctor.FixableCount(results); fixable > 0 && !doctorFix {
		fmt.Fprintf(out, "\n  Run with %s to fix %d of them.\n", ui.MutedStyle().Render("--fix"), fixable)
	}
}

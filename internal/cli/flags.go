package cli

import (
	"fmt"
	"time"

	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/domain"
	"github.com/camai/camai/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// monitorFlagNames are the flags AddMonitorFlags registers, in the order
// they override an existing monitor.
var monitorFlagNames = []string{"name", "type", "source", "connection-url", "interval", "rule", "integrations", "ideal-image"}

// AddMonitorFlags registers the monitor fields on cmd, bound to d.
func AddMonitorFlags(cmd *cobra.Command, d *dashboard.MonitorFormData) {
	cmd.Flags().StringVar(&d.Name, "name", "", "monitor name")
	cmd.Flags().StringVar(&d.Type, "type", string(domain.TypeQuantifier), "monitor type: QUANTIFIER, DETECTOR or PROCESS")
	cmd.Flags().StringVar(&d.Source, "source", domain.SourceRTSP, fmt.Sprintf("input source: %q, %q or %q", domain.SourceRTSP, domain.SourceUploadInterval, domain.SourceEventTrigger))
	cmd.Flags().StringVar(&d.ConnectionURL, "connection-url", domain.DefaultConnectionURL, "RTSP URL or local camera index")
	cmd.Flags().StringVar(&d.Interval, "interval", domain.FormatInterval(domain.DefaultInterval), "minutes between checks (0.5 = 30 seconds)")
	cmd.Flags().StringVar(&d.Rule, "rule", "", "natural-language rule to evaluate")
	cmd.Flags().StringSliceVar(&d.Integrations, "integrations", nil, "notification channels: WhatsApp, Email, Excel Sheet")
	cmd.Flags().StringVar(&d.IdealImage, "ideal-image", "", "reference image of the ideal state (QUANTIFIER)")
}

// monitorFlagsChanged reports whether any monitor field was set on the
// command line.
func monitorFlagsChanged(flags *pflag.FlagSet) bool {
	for _, name := range monitorFlagNames {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

// overlayMonitorFlags copies only the flags the user set from src onto
// base, so `monitors update` changes just what was asked for.
func overlayMonitorFlags(flags *pflag.FlagSet, base, src *dashboard.MonitorFormData) {
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("name", &base.Name, src.Name)
	set("type", &base.Type, src.Type)
	set("source", &base.Source, src.Source)
	set("connection-url", &base.ConnectionURL, src.ConnectionURL)
	set("interval", &base.Interval, src.Interval)
	set("rule", &base.Rule, src.Rule)
	set("ideal-image", &base.IdealImage, src.IdealImage)
	if flags.Changed("integrations") {
		base.Integrations = src.Integrations
	}
}

// parseMonitorInput validates form data as a VALIDATION error.
func parseMonitorInput(d *dashboard.MonitorFormData) (domain.MonitorInput, error) {
	in, err := d.Input()
	if err != nil {
		return in, errors.WrapWithCode(err, errors.ErrValidation,
			"Monitor settings are not valid",
			"Check --name, --type, --source and --interval; see 'camai monitors create --help'")
	}
	return in, nil
}

// ParseDuration parses a duration flag. Empty means zero.
func ParseDuration(flag, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		if err == nil {
			err = fmt.Errorf("must be positive")
		}
		return 0, errors.WrapWithCode(err, errors.ErrValidation,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, flag),
			"Try something like 30m, 24h, or 90s.")
	}
	return duration, nil
}

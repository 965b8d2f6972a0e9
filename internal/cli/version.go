package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// versionShort controls whether to show short or full version output
var versionShort bool

// VersionInfo is the --json form of `camai version`.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
	OSArch  string `json:"os_arch"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Long:        `Print the version, commit hash, and build date of camai.`,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := currentVersionInfo()

		if machineMode {
			return WriteJSONSuccess(out, info)
		}
		if versionShort {
			fmt.Fprintln(out, info.Version)
			return nil
		}

		fmt.Fprintf(out, "camai %s\n", info.Version)
		fmt.Fprintf(out, "commit: %s\n", info.Commit)
		fmt.Fprintf(out, "built: %s\n", info.Built)
		fmt.Fprintf(out, "go: %s\n", info.Go)
		fmt.Fprintf(out, "os/arch: %s\n", info.OSArch)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

func currentVersionInfo() VersionInfo {
	return VersionInfo{
		Version: formatVersion(version),
		Commit:  commit,
		Built:   date,
		Go:      runtime.Version(),
		OSArch:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	dashboardPoll string
	mockAddr      string
	mockEmpty     bool
	mockLatency   string
)

// dashboardCmd opens the full-screen console
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui", "tui"},
	Short:   "Open the full-screen console",
	Long: `Open the full-screen console with four tabs:

  1 Dashboard  alert count, monitor status, alerts per hour, latest logs
  2 Cameras    monitor list with create, edit, delete, test and trigger
  3 Logs       the analysis log, refreshed while the tab is open
  4 Settings   backend and config details

Press ? inside the console for key bindings. While the console owns the
terminal, logs go to the rotating file in logging.dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd)
	},
}

// mockBackendCmd serves the in-memory backend
var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Run an in-memory stand-in for the Camai backend",
	Long: `Serve the Camai REST API from memory with demo monitors and logs, for
trying the console without cameras or a vision model.

Scans return canned results. A rule containing "alert" or "fail" produces
an alerting result.

Examples:
  camai mock-backend
  camai mock-backend --addr :5050 --empty
  camai --api-url http://127.0.0.1:5050 dashboard`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return mockBackendCommand(cmd)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate a shell completion script",
	Long: `Generate a shell completion script.

  bash:  source <(camai completion bash)
  zsh:   camai completion zsh > "${fpath[1]}/_camai"
  fish:  camai completion fish | source`,
	Args:                  cobra.ExactArgs(1),
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	DisableFlagsInUseLine: true,
	Annotations:           map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionCommand(cmd, args[0])
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardPoll, "poll", "", "log refresh interval on the Logs tab (default: dashboard.poll_interval)")

	mockBackendCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:5000", "address to listen on")
	mockBackendCmd.Flags().BoolVar(&mockEmpty, "empty", false, "start without demo monitors and logs")
	mockBackendCmd.Flags().StringVar(&mockLatency, "latency", "", "delay every response, e.g. 800ms, to watch loading states")

	rootCmd.AddCommand(dashboardCmd, mockBackendCmd, completionCmd)
}

func completionCommand(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	}
	return fmt.Errorf("invalid argument %q for shell, want bash, zsh, fish or powershell", shell)
}

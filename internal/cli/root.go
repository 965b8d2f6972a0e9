package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/config"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile string
	apiURL  string
	verbose bool
)

// skipBootstrap marks commands that run without loading config, e.g.
// `version` or `config init`.
const skipBootstrap = "camai/skip-bootstrap"

// session is what every backend-facing command needs: the effective
// config, a logger and an API client. bootstrap fills it before RunE.
type session struct {
	cfg     *config.Config
	cfgPath string
	log     *logger.ZapLogger
	client  *api.Client
}

// current is set by bootstrap for the command being run.
var current *session

var rootCmd = &cobra.Command{
	Use:   "camai",
	Short: "Terminal console for the Camai camera monitoring backend",
	Long: `camai is a terminal console for Camai, a service that watches camera feeds
and evaluates natural-language rules against them with a vision model.

Run 'camai dashboard' for the full-screen console, or use the subcommands
to manage monitors, read the analysis log and test rules from scripts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .camai.yaml, then ~/.config/camai/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL, overrides api.base_url")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// bootstrap resolves config, applies flag overrides and builds the session.
func bootstrap(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipBootstrap] != "" || cmd.Name() == "help" {
		if machineMode {
			ui.DisableColors()
		}
		return nil
	}

	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ui.ApplyColorMode(cfg.Output.Color)
	if machineMode {
		ui.DisableColors()
	}

	log := logger.NewWriter(cmd.ErrOrStderr(), logLevel())
	logger.SetDefault(log)
	if path != "" {
		log.Debug("using config %s", path)
	}

	current = &session{
		cfg:     cfg,
		cfgPath: path,
		log:     log,
		client: api.NewClient(cfg.API.BaseURL,
			api.WithTimeout(cfg.API.Timeout),
			api.WithLogger(log.Named("api"))),
	}
	return nil
}

// logLevel is the console log level: warnings, or everything with --verbose.
func logLevel() string {
	if verbose {
		return "debug"
	}
	return "warn"
}

// errReported is returned by commands that already printed their failure.
var errReported = stderrors.New("failure already reported")

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes args and reports failures the way the user asked for them:
// the structured error on stderr, or the JSON envelope on stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	current = nil
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		_ = current.log.Close()
	}
	if err == nil {
		return 0
	}
	if stderrors.Is(err, errReported) {
		return 1
	}

	if machineMode {
		_ = WriteJSONFromError(stdout, err)
		return 1
	}
	printError(stderr, err)
	return 1
}

func printError(w io.Writer, err error) {
	if _, ok := errors.As(err); ok {
		fmt.Fprint(w, ui.ErrorStyle().Render(err.Error()))
		return
	}
	if isUsageError(err) {
		fmt.Fprintf(w, "%s %s\n\n  Run 'camai --help' for usage.\n", ui.SymbolFail, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ui.SymbolFail, err)
}

// isUsageError reports whether err came from cobra's argument or flag
// parsing rather than from the command itself.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "flag needs an argument", "required flag"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return strings.Contains(msg, "arg(s), received")
}

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// interactive reports whether prompts may be shown.
func interactive() bool {
	return !machineMode && stdinIsTerminal()
}

// outputWidth is the terminal width for w, or 100 when w is not a terminal.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}

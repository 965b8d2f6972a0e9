package cli

import (
	"fmt"
	"os"

	"github.com/camai/camai/internal/api"
	"github.com/camai/camai/internal/dashboard"
	"github.com/camai/camai/internal/errors"
	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dashboardCommand runs the Bubble Tea console until the user quits.
func dashboardCommand(cmd *cobra.Command) error {
	if machineMode {
		return errors.New(errors.ErrValidation,
			"The dashboard has no JSON output",
			"Use 'camai stats --json' or 'camai logs --json' instead")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) || !stdinIsTerminal() {
		return errors.New(errors.ErrValidation,
			"The dashboard needs a terminal",
			"Run it in an interactive shell, or use 'camai stats' and 'camai logs' from scripts")
	}

	cfg := *current.cfg
	if dashboardPoll != "" {
		interval, err := ParseDuration("poll", dashboardPoll)
		if err != nil {
			return err
		}
		cfg.Dashboard.PollInterval = interval
	}

	// The alt screen owns the terminal, so logs go to a file.
	var log logger.Logger = logger.Noop()
	fileLog, err := logger.NewFile(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		current.log.Warn("file logging disabled: %v", err)
	} else {
		defer fileLog.Close()
		log = fileLog
		log.Info("dashboard starting, backend %s", cfg.API.BaseURL)
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(withName(log, "api")))
	store := state.New(client, state.WithLogger(withName(log, "state")))

	model := dashboard.NewModel(client, store, dashboard.Options{
		Config:  &cfg,
		Logger:  withName(log, "dashboard"),
		Version: formatVersion(version),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		if cmd.Context().Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// withName tags l with a component name when it supports it.
func withName(l logger.Logger, name string) logger.Logger {
	if z, ok := l.(*logger.ZapLogger); ok {
		return z.Named(name)
	}
	return l
}

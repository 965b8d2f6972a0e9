package cli

import (
	"fmt"
	"time"

	"github.com/camai/camai/internal/logger"
	"github.com/camai/camai/internal/mockserver"
	"github.com/camai/camai/internal/ui"
	"github.com/spf13/cobra"
)

func mockBackendCommand(cmd *cobra.Command) error {
	var latency time.Duration
	if mockLatency != "" {
		d, err := ParseDuration("latency", mockLatency)
		if err != nil {
			return err
		}
		latency = d
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	log := logger.NewWriter(cmd.ErrOrStderr(), level)
	defer log.Close()

	store := mockserver.NewStore()
	if !mockEmpty {
		mockserver.Seed(store)
	}
	srv := mockserver.NewServer(log.Zap().Named("mock"), store)
	srv.Latency = latency

	if !machineMode {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Mock backend on http://%s (%d monitors, %d logs)\n",
			ui.SuccessStyle().Render(ui.SymbolSuccess), mockAddr, len(store.Monitors()), len(store.Logs()))
		fmt.Fprintln(cmd.OutOrStdout(), ui.MutedStyle().Render("  Ctrl+C to stop"))
	}
	return srv.ListenAndServe(cmd.Context(), mockAddr)
}

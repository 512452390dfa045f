package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blacksheeep/airplane-sim/internal/supervisor"
	"github.com/blacksheeep/airplane-sim/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the flight controller, bus, and every satellite component",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := telemetry.New(cmd.ErrOrStderr(), telemetry.ParseLevel(cfg.LogLevel), true)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := supervisor.New(cfg, logger)
	if err := sup.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sup.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	runErr := sup.Run(ctx)
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}

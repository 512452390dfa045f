// Package cmd implements the simulator's command-line entrypoint: a
// cobra root command exposing `run` (stand up the flight controller and
// its component tree) plus a hidden `component <name>` subcommand the
// supervisor uses internally to self-exec each satellite process.
// Persistent flags fill package-level variables, which loadConfig folds
// into a typed config.Config at the start of each command's RunE, before
// the long-lived app object is constructed.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blacksheeep/airplane-sim/internal/config"
)

var (
	configPath string
	logLevel   string
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:           "airplane-sim",
	Short:         "Flight-control simulator: bus, flight controller, autopilot, and sensor components",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (defaults embedded if omitted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace/debug/info/warn/error)")

	rootCmd.AddCommand(runCmd, componentCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("cmd: load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}


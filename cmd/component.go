package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blacksheeep/airplane-sim/internal/autopilot"
	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
	"github.com/blacksheeep/airplane-sim/internal/sensors/gps"
	"github.com/blacksheeep/airplane-sim/internal/sensors/ins"
	"github.com/blacksheeep/airplane-sim/internal/sensors/landingradio"
	"github.com/blacksheeep/airplane-sim/internal/sensors/satcom"
	"github.com/blacksheeep/airplane-sim/internal/telemetry"
)

// componentCmd is hidden: it exists only so the supervisor can re-exec
// the current binary as a distinct OS process per satellite component,
// the Go analogue of the original's fork()+exec into a component's main.
var componentCmd = &cobra.Command{
	Use:    "component <name>",
	Short:  "Internal: run a single satellite component process",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE:   runComponent,
}

func runComponent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := telemetry.New(cmd.ErrOrStderr(), telemetry.ParseLevel(cfg.LogLevel), false)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	name := args[0]
	id, err := componentIDFromName(name)
	if err != nil {
		return err
	}

	client, err := bus.Attach(cfg.BusSocket, id)
	if err != nil {
		return fmt.Errorf("component %s: attach bus: %w", name, err)
	}
	defer client.Detach()

	switch id {
	case messages.ComponentAutopilot:
		if err := client.Subscribe(messages.MsgStateResponse); err != nil {
			return err
		}
		ap := autopilot.New(client, &cfg.Autopilot, logger)
		return ap.Run(ctx)

	case messages.ComponentGPS:
		return gps.New(cfg.Sensors.GPSAddr, client, logger).Run(ctx)

	case messages.ComponentINS:
		seed := messages.Position{
			Latitude:  cfg.Sensors.INSSeedLatitude,
			Longitude: cfg.Sensors.INSSeedLongitude,
			Altitude:  cfg.Sensors.INSSeedAltitude,
		}
		return ins.New(seed, client, logger).Run(ctx)

	case messages.ComponentLandingRadio:
		return landingradio.New(cfg.Sensors.LandingRadioAddr, client, logger).Run(ctx)

	case messages.ComponentSatCom:
		return satcom.New(cfg.Sensors.SatComAddr, client, logger).Run(ctx)

	default:
		return fmt.Errorf("component %s: not a spawnable component", name)
	}
}

func componentIDFromName(name string) (messages.ComponentID, error) {
	for id := messages.ComponentFlightController; id < messages.MaxComponents; id++ {
		if id.String() == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("component: unknown component name %q", name)
}

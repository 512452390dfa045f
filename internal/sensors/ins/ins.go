// Package ins implements the inertial navigation system component as a
// simplified synthetic-drift position source: starting from a seed
// position, it integrates a small fixed drift every tick the way a real
// INS accumulates dead-reckoning error without external correction.
// original_source/src/components/ins.c's actual dead-reckoning math was
// only partially read before the reference pack was lost (see
// DESIGN.md); rather than reconstruct logic never seen, this is a
// deliberately simplified stand-in that still exercises the same
// POSITION_UPDATE / SYSTEM_STATUS contract as the other sensor
// components.
package ins

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// TickInterval is how often the INS integrates drift and republishes its
// position.
const TickInterval = 500 * time.Millisecond

// DriftPerTick is the small constant per-axis position error
// accumulated each tick, standing in for unbounded dead-reckoning drift.
const DriftPerTick = 0.0001 // degrees

// INS produces a slowly-drifting synthetic position.
type INS struct {
	client   *bus.Client
	logger   zerolog.Logger
	position messages.Position
}

// New constructs an INS seeded at the given starting position.
func New(seed messages.Position, client *bus.Client, logger zerolog.Logger) *INS {
	return &INS{
		client:   client,
		logger:   logger.With().Str("component", "ins").Logger(),
		position: seed,
	}
}

// Run blocks until ctx is cancelled, integrating drift and publishing
// POSITION_UPDATE and SYSTEM_STATUS each tick.
func (i *INS) Run(ctx context.Context) error {
	if err := i.client.Publish(messages.NewSystemStatus(messages.ComponentINS, messages.ComponentFlightController, true)); err != nil {
		i.logger.Warn().Err(err).Msg("failed to publish system status")
	}

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = i.client.Publish(messages.NewSystemStatus(messages.ComponentINS, messages.ComponentFlightController, false))
			return ctx.Err()
		case <-ticker.C:
			i.tick()
		}
	}
}

func (i *INS) tick() {
	i.position.Latitude += DriftPerTick
	i.position.Longitude += DriftPerTick

	msg := messages.NewPositionUpdate(messages.ComponentINS, messages.ComponentFlightController, i.position)
	if err := i.client.Publish(msg); err != nil {
		i.logger.Warn().Err(err).Msg("failed to publish position update")
	}
}

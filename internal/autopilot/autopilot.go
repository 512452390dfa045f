// Package autopilot implements the autopilot component process: a fixed
// 10 Hz tick loop that asks the flight controller for its current fused
// state, runs three independent PID loops (heading, altitude, speed)
// against configured targets, and publishes the result as an
// AUTOPILOT_COMMAND. Grounded on original_source/src/core/autopilot.c's
// autopilot_tick, with the command-loop/bus plumbing shaped after the
// teacher's subscription lifecycle idiom (Attach/Subscribe/ReadMessage
// driven from a single goroutine's select loop).
package autopilot

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/config"
	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// TickInterval is the autopilot's fixed control-loop period. dt in every
// PID computation is this interval's duration in seconds, not measured
// wall-clock time between ticks — matching the original's fixed-dt
// integration.
const TickInterval = 100 * time.Millisecond

// StateRequestInterval is how often the autopilot asks the flight
// controller for a fresh STATE_RESPONSE.
const StateRequestInterval = 1 * time.Second

const dtSeconds = float64(TickInterval) / float64(time.Second)

// Autopilot runs the three-axis PID control loop.
type Autopilot struct {
	client *bus.Client
	cfg    *config.Autopilot
	logger zerolog.Logger

	headingPID  *pidController
	altitudePID *pidController
	speedPID    *pidController

	lastState      messages.FlightState
	haveState      bool
	lastStateReqAt time.Time
}

// New constructs an Autopilot bound to an already-attached bus client.
func New(client *bus.Client, cfg *config.Autopilot, logger zerolog.Logger) *Autopilot {
	return &Autopilot{
		client:      client,
		cfg:         cfg,
		logger:      logger.With().Str("component", "autopilot").Logger(),
		headingPID:  newPID(cfg.HeadingPID.Kp, cfg.HeadingPID.Ki, cfg.HeadingPID.Kd),
		altitudePID: newPID(cfg.AltitudePID.Kp, cfg.AltitudePID.Ki, cfg.AltitudePID.Kd),
		speedPID:    newPID(cfg.SpeedPID.Kp, cfg.SpeedPID.Ki, cfg.SpeedPID.Kd),
	}
}

// Subscribe registers the autopilot's interest in STATE_RESPONSE, the
// only message type it ever reads.
func (a *Autopilot) Subscribe() error {
	return a.client.Subscribe(messages.MsgStateResponse)
}

// Run drives the tick loop until ctx is cancelled.
func (a *Autopilot) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Autopilot) tick() {
	now := time.Now()
	if now.Sub(a.lastStateReqAt) >= StateRequestInterval {
		if err := a.client.Publish(messages.NewStateRequest(messages.ComponentAutopilot, messages.ComponentFlightController)); err != nil {
			a.logger.Warn().Err(err).Msg("failed to publish state request")
		}
		a.lastStateReqAt = now
	}

	a.drainStateResponses()

	if !a.haveState {
		return
	}

	newHeading := a.stepHeading(a.lastState.Heading)
	newAltitude := a.stepAltitude(a.lastState.Position.Altitude)
	newSpeed := a.stepSpeed(a.lastState.Speed)

	cmd := messages.NewAutopilotCommand(messages.ComponentAutopilot, messages.ComponentFlightController, newHeading, newSpeed, newAltitude)
	if err := a.client.Publish(cmd); err != nil {
		a.logger.Warn().Err(err).Msg("failed to publish autopilot command")
	}
}

func (a *Autopilot) drainStateResponses() {
	for {
		msg, found, err := a.client.ReadMessage()
		if err != nil {
			a.logger.Warn().Err(err).Msg("read_message failed")
			return
		}
		if !found {
			return
		}
		if msg.Header.Type == messages.MsgStateResponse {
			a.lastState = msg.StateResponse.State
			a.haveState = true
		}
	}
}

// stepHeading runs the heading PID loop. The error is the shortest
// signed angular distance from current to target, in [-180, 180]; the
// raw PID output is clamped to ±MaxHeadingRate degrees for this tick and
// added to current, then wrapped back into [0, 360).
func (a *Autopilot) stepHeading(current float64) float64 {
	errVal := normalizeAngle(a.cfg.TargetHeading - current)
	out := a.headingPID.compute(errVal, dtSeconds)
	out = clamp(out, -a.cfg.MaxHeadingRate, a.cfg.MaxHeadingRate)
	return wrapHeading(current + out)
}

// stepAltitude runs the altitude PID loop. The raw output is clamped
// asymmetrically to [-MaxDescentRate, MaxClimbRate] and added directly to
// the current altitude in feet for this tick, matching the original's
// literal (not rate-integrated) altitude update.
func (a *Autopilot) stepAltitude(current float64) float64 {
	errVal := a.cfg.TargetAltitude - current
	out := a.altitudePID.compute(errVal, dtSeconds)
	out = clamp(out, -a.cfg.MaxDescentRate, a.cfg.MaxClimbRate)
	return current + out
}

// stepSpeed runs the speed PID loop. The candidate new speed is
// current+rawOutput, clamped into [MinSpeed, MaxSpeed]; the delta applied
// is that clamped candidate minus current, so an out-of-range raw output
// saturates instead of overshooting the envelope.
func (a *Autopilot) stepSpeed(current float64) float64 {
	errVal := a.cfg.TargetSpeed - current
	out := a.speedPID.compute(errVal, dtSeconds)
	candidate := clamp(current+out, a.cfg.MinSpeed, a.cfg.MaxSpeed)
	applied := candidate - current
	return current + applied
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeAngle reduces a signed degree difference into [-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg+180.0, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg - 180.0
}

// wrapHeading reduces a heading into [0, 360).
func wrapHeading(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// Package supervisor implements the flight controller: it hosts the bus
// server, spawns the four satellite component processes in order, runs
// the message-handling loop that folds incoming POSITION_UPDATE,
// AUTOPILOT_COMMAND, and SYSTEM_STATUS messages into the fused flight
// state, answers STATE_REQUEST with STATE_RESPONSE, and supervises child
// process lifecycle through shutdown. Grounded on
// original_source/src/core/flight_controller.c's main loop and startup
// sequence, with the process-spawn/respawn shape drawn from the teacher
// pack's supervised-subprocess idiom.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/config"
	"github.com/blacksheeep/airplane-sim/internal/flightstate"
	"github.com/blacksheeep/airplane-sim/internal/messages"
	"github.com/blacksheeep/airplane-sim/internal/procutil"
)

// MessageLoopInterval is how often the flight controller drains its
// inbound queue, matching the original's ~10ms select/poll cadence.
const MessageLoopInterval = 10 * time.Millisecond

// startupOrder is the sequence components are spawned in, each delayed
// by startupStagger so the bus has a moment to register each attach
// before the next process dials in — mirroring the original's staggered
// fork() calls in flight_controller_start.
var startupOrder = []messages.ComponentID{
	messages.ComponentAutopilot,
	messages.ComponentGPS,
	messages.ComponentINS,
	messages.ComponentLandingRadio,
}

const startupStagger = 100 * time.Millisecond

// Supervisor owns the bus server, the fused flight state, and the set of
// child component processes.
type Supervisor struct {
	cfg    *config.Config
	logger zerolog.Logger

	server *bus.Server
	client *bus.Client
	state  *flightstate.Extended

	children map[messages.ComponentID]*procutil.Child
}

// New constructs a Supervisor. Call Start to stand up the bus and spawn
// children.
func New(cfg *config.Config, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		logger:   logger.With().Str("component", "flight-controller").Logger(),
		state:    flightstate.New(),
		children: make(map[messages.ComponentID]*procutil.Child),
	}
}

// Start initializes the bus, attaches the flight controller's own client,
// subscribes to the message types it consumes, and spawns every
// satellite component in startupOrder with startupStagger between each.
func (s *Supervisor) Start(ctx context.Context) error {
	server, err := bus.NewServer(s.cfg.BusSocket, s.logger)
	if err != nil {
		return fmt.Errorf("supervisor: start bus: %w", err)
	}
	s.server = server

	client, err := bus.Attach(s.cfg.BusSocket, messages.ComponentFlightController)
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("supervisor: attach bus: %w", err)
	}
	s.client = client

	for _, msgType := range []messages.MessageType{
		messages.MsgPositionUpdate,
		messages.MsgStateRequest,
		messages.MsgAutopilotCommand,
		messages.MsgSystemStatus,
	} {
		if err := s.client.Subscribe(msgType); err != nil {
			return fmt.Errorf("supervisor: subscribe %s: %w", msgType, err)
		}
	}

	for i, id := range startupOrder {
		if i > 0 {
			time.Sleep(startupStagger)
		}
		if err := s.spawn(ctx, id); err != nil {
			return fmt.Errorf("supervisor: spawn %s: %w", id, err)
		}
	}

	return nil
}

func (s *Supervisor) spawn(ctx context.Context, id messages.ComponentID) error {
	child, err := procutil.Start(ctx, id.String(), []string{"component", id.String()}, os.Environ())
	if err != nil {
		return err
	}
	s.children[id] = child
	s.logger.Info().Str("child", id.String()).Int("pid", child.Pid()).Msg("spawned component")
	return nil
}

// Run drives the message-handling loop until ctx is cancelled, reaping
// and respawning any child that exits unexpectedly.
func (s *Supervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(MessageLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.drainMessages()
			s.superviseChildren(ctx)
		}
	}
}

func (s *Supervisor) drainMessages() {
	for {
		msg, found, err := s.client.ReadMessage()
		if err != nil {
			s.logger.Warn().Err(err).Msg("read_message failed")
			return
		}
		if !found {
			return
		}
		s.handle(msg)
	}
}

func (s *Supervisor) handle(msg messages.Message) {
	switch msg.Header.Type {
	case messages.MsgPositionUpdate:
		s.state.UpdatePosition(msg.Header.Sender, msg.PositionUpdate.Position)
		if s.client != nil {
			resp := messages.NewStateResponse(messages.ComponentFlightController, messages.ComponentAutopilot, s.state.Basic)
			if err := s.client.Publish(resp); err != nil {
				s.logger.Warn().Err(err).Msg("failed to publish state response")
			}
		}

	case messages.MsgStateRequest:
		resp := messages.NewStateResponse(messages.ComponentFlightController, msg.Header.Sender, s.state.Basic)
		if err := s.client.Publish(resp); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish state response")
		}

	case messages.MsgAutopilotCommand:
		cmd := msg.AutopilotCommand
		s.state.UpdateAutopilot(cmd.TargetAltitude, cmd.TargetHeading, cmd.TargetSpeed)
		s.state.Basic.Heading = cmd.TargetHeading
		s.state.Basic.Speed = cmd.TargetSpeed
		s.state.Basic.Position.Altitude = cmd.TargetAltitude

	case messages.MsgSystemStatus:
		s.state.UpdateSystemStatus(msg.Header.Sender, msg.SystemStatus.ComponentActive)

	default:
		s.logger.Debug().Str("type", msg.Header.Type.String()).Msg("unhandled message type")
	}
}

func (s *Supervisor) superviseChildren(ctx context.Context) {
	for id, child := range s.children {
		exited, err := child.Exited()
		if !exited {
			continue
		}
		s.logger.Warn().Str("child", id.String()).Err(err).Msg("child exited unexpectedly, respawning")
		s.state.UpdateSystemStatus(id, false)
		if spawnErr := s.spawn(ctx, id); spawnErr != nil {
			s.logger.Error().Str("child", id.String()).Err(spawnErr).Msg("respawn failed")
		}
	}
}

// State returns the supervisor's fused flight state, primarily for
// tests and out-of-band status reporting.
func (s *Supervisor) State() *flightstate.Extended {
	return s.state
}

// Shutdown stops every child (graceful then forceful), detaches the
// flight controller's own client, and closes the bus last, matching the
// original's teardown order: components first, shared resource last.
func (s *Supervisor) Shutdown() error {
	for id, child := range s.children {
		if err := child.Stop(); err != nil {
			s.logger.Warn().Str("child", id.String()).Err(err).Msg("stop failed")
		}
	}

	if s.client != nil {
		if _, err := s.client.Detach(); err != nil {
			s.logger.Warn().Err(err).Msg("detach failed")
		}
	}

	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

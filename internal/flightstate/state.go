// Package flightstate holds the flight controller's authoritative,
// single-writer aircraft state: the fused basic FlightState plus the
// extended bookkeeping (per-source nav slots, autopilot targets, system
// status) the flight controller needs to do that fusion.
package flightstate

import (
	"time"

	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// navSlot is one of the three redundant position sources.
type navSlot struct {
	Valid    bool
	Position messages.Position
}

// Parameters are reserved aircraft attitude/thrust parameters. The core
// autopilot loop never writes these; they exist so a future control law
// (or the out-of-scope terminal status printer) has somewhere to read
// pitch/roll/yaw/thrust from.
type Parameters struct {
	Pitch  float64
	Roll   float64
	Yaw    float64
	Thrust float64
}

// AutopilotTargets mirrors the last AUTOPILOT_COMMAND received.
type AutopilotTargets struct {
	Enabled        bool
	TargetAltitude float64
	TargetHeading  float64
	TargetSpeed    float64
}

// SystemStatus tracks per-component connectivity.
type SystemStatus struct {
	GPSConnected           bool
	INSOperational         bool
	LandingRadioConnected  bool
	SatComConnected        bool
	LastUpdateTime         int64 // unix seconds
}

// Extended is the flight controller's private, single-writer state. It is
// exported so the supervisor package can hold one, but every mutating
// method is only ever meant to be called from the supervisor's single
// message-handling goroutine. It has no locking and no snapshot accessor.
type Extended struct {
	Basic messages.FlightState

	gps   navSlot
	ins    navSlot
	radio  navSlot

	Parameters Parameters
	Autopilot  AutopilotTargets
	Status     SystemStatus
}

// New returns a zero-valued Extended state with timestamps set to now, as
// flight_state_init does in the original.
func New() *Extended {
	now := time.Now().Unix()
	return &Extended{
		Basic: messages.FlightState{
			Timestamp: now,
		},
		Status: SystemStatus{LastUpdateTime: now},
	}
}

// UpdatePosition records a fresh position from source, then recomputes
// Basic.Position via BestPosition. Unknown sources are ignored, matching
// the original's switch-default no-op.
func (s *Extended) UpdatePosition(source messages.ComponentID, pos messages.Position) {
	now := time.Now().Unix()
	s.Basic.Timestamp = now
	s.Status.LastUpdateTime = now

	switch source {
	case messages.ComponentGPS:
		s.gps.Valid = true
		s.gps.Position = pos
	case messages.ComponentINS:
		s.ins.Valid = true
		s.ins.Position = pos
	case messages.ComponentLandingRadio:
		s.radio.Valid = true
		s.radio.Position = pos
	default:
		return
	}

	s.Basic.Position = s.BestPosition()
}

// UpdateAutopilot copies an AUTOPILOT_COMMAND's three targets into state.
func (s *Extended) UpdateAutopilot(targetAltitude, targetHeading, targetSpeed float64) {
	s.Autopilot.TargetAltitude = targetAltitude
	s.Autopilot.TargetHeading = targetHeading
	s.Autopilot.TargetSpeed = targetSpeed

	now := time.Now().Unix()
	s.Basic.Timestamp = now
	s.Status.LastUpdateTime = now
}

// UpdateSystemStatus records a component's connected/operational flag. When
// connected transitions to false, the matching nav slot is invalidated
// (the flight controller no longer trusts stale data from a disconnected
// source) and Basic.Position is recomputed.
func (s *Extended) UpdateSystemStatus(component messages.ComponentID, connected bool) {
	switch component {
	case messages.ComponentGPS:
		s.Status.GPSConnected = connected
		if !connected {
			s.gps.Valid = false
		}
	case messages.ComponentINS:
		s.Status.INSOperational = connected
		if !connected {
			s.ins.Valid = false
		}
	case messages.ComponentLandingRadio:
		s.Status.LandingRadioConnected = connected
		if !connected {
			s.radio.Valid = false
		}
	case messages.ComponentSatCom:
		s.Status.SatComConnected = connected
	default:
		return
	}

	now := time.Now().Unix()
	s.Basic.Timestamp = now
	s.Status.LastUpdateTime = now
	s.Basic.Position = s.BestPosition()
}

// BestPosition returns the highest-priority valid nav slot's position
// (GPS > INS > radio) or, if none is valid, the current Basic.Position
// unchanged.
func (s *Extended) BestPosition() messages.Position {
	if s.gps.Valid {
		return s.gps.Position
	}
	if s.ins.Valid {
		return s.ins.Position
	}
	if s.radio.Valid {
		return s.radio.Position
	}
	return s.Basic.Position
}

// Valid reports whether the state has at least one valid position source
// and has been updated within the last 10 seconds, matching
// flight_state_is_valid in the original.
func (s *Extended) Valid() bool {
	if !s.gps.Valid && !s.ins.Valid && !s.radio.Valid {
		return false
	}
	return time.Now().Unix()-s.Status.LastUpdateTime <= 10
}

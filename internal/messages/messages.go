// Package messages defines the bus's message taxonomy: component
// identities, message types, and the discriminated payload carried by
// every Message.
package messages

import (
	"errors"
	"fmt"
	"time"
)

// ComponentID identifies one of the fixed set of simulator processes.
// Values match original_source/include/common.h's ComponentId enum so the
// wire taxonomy stays recognizable across the port.
type ComponentID int

const (
	ComponentFlightController ComponentID = iota
	ComponentAutopilot
	ComponentGPS
	ComponentINS
	ComponentLandingRadio
	ComponentSatCom

	// MaxComponents bounds valid ComponentID values (exclusive).
	MaxComponents = 6
)

func (c ComponentID) String() string {
	switch c {
	case ComponentFlightController:
		return "flight-controller"
	case ComponentAutopilot:
		return "autopilot"
	case ComponentGPS:
		return "gps"
	case ComponentINS:
		return "ins"
	case ComponentLandingRadio:
		return "landing-radio"
	case ComponentSatCom:
		return "sat-com"
	default:
		return fmt.Sprintf("component(%d)", int(c))
	}
}

// Valid reports whether c is one of the known component identities.
func (c ComponentID) Valid() bool {
	return c >= ComponentFlightController && c < MaxComponents
}

// MessageType is the bus's pub/sub topic.
type MessageType int

const (
	MsgPositionUpdate MessageType = iota
	MsgStateRequest
	MsgStateResponse
	MsgAutopilotCommand
	MsgSystemStatus
)

func (t MessageType) String() string {
	switch t {
	case MsgPositionUpdate:
		return "POSITION_UPDATE"
	case MsgStateRequest:
		return "STATE_REQUEST"
	case MsgStateResponse:
		return "STATE_RESPONSE"
	case MsgAutopilotCommand:
		return "AUTOPILOT_COMMAND"
	case MsgSystemStatus:
		return "SYSTEM_STATUS"
	default:
		return fmt.Sprintf("msg(%d)", int(t))
	}
}

// ErrInvalidComponent is returned when a ComponentID outside the known
// range is used, e.g. by bus.Attach for its self identity.
var ErrInvalidComponent = errors.New("messages: invalid component id")

// Position is a WGS-84-ish fix: latitude/longitude in degrees, altitude in
// feet. No range validation is performed here; callers that parse external
// input are responsible for range-checking before constructing one.
type Position struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// FlightState is the basic, fused aircraft state published to subscribers.
type FlightState struct {
	Position       Position
	Heading        float64 // degrees, [0, 360)
	Speed          float64 // knots
	VerticalSpeed  float64 // feet per minute
	Timestamp      int64   // unix seconds
}

// PositionUpdate carries a fresh position from a navigation source.
type PositionUpdate struct {
	Position Position
}

// StateRequest has no payload; its presence as a message type is the
// request.
type StateRequest struct{}

// StateResponse carries the flight controller's fused state.
type StateResponse struct {
	State FlightState
}

// AutopilotCommand carries the three targets the autopilot computed this
// tick.
type AutopilotCommand struct {
	TargetHeading  float64
	TargetSpeed    float64
	TargetAltitude float64
}

// SystemStatus reports a component's connected/operational flag.
type SystemStatus struct {
	ComponentActive bool
}

// Header is the envelope every Message carries regardless of payload.
type Header struct {
	Type      MessageType
	Sender    ComponentID
	Receiver  ComponentID
	Timestamp int64
	Size      int
}

// Message is a value-typed, tagged record. Exactly one of the payload
// fields is meaningful, selected by Header.Type; the bus stores and copies
// Message by value, never by reference, matching the original's
// memcpy-a-struct semantics.
type Message struct {
	Header Header

	PositionUpdate   PositionUpdate
	StateRequest     StateRequest
	StateResponse    StateResponse
	AutopilotCommand AutopilotCommand
	SystemStatus     SystemStatus
}

// NewPositionUpdate builds a POSITION_UPDATE message from sender to
// receiver.
func NewPositionUpdate(sender, receiver ComponentID, pos Position) Message {
	return Message{
		Header: Header{
			Type:      MsgPositionUpdate,
			Sender:    sender,
			Receiver:  receiver,
			Timestamp: time.Now().Unix(),
		},
		PositionUpdate: PositionUpdate{Position: pos},
	}
}

// NewStateRequest builds a STATE_REQUEST message.
func NewStateRequest(sender, receiver ComponentID) Message {
	return Message{
		Header: Header{
			Type:      MsgStateRequest,
			Sender:    sender,
			Receiver:  receiver,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewStateResponse builds a STATE_RESPONSE message.
func NewStateResponse(sender, receiver ComponentID, state FlightState) Message {
	return Message{
		Header: Header{
			Type:      MsgStateResponse,
			Sender:    sender,
			Receiver:  receiver,
			Timestamp: time.Now().Unix(),
		},
		StateResponse: StateResponse{State: state},
	}
}

// NewAutopilotCommand builds an AUTOPILOT_COMMAND message.
func NewAutopilotCommand(sender, receiver ComponentID, heading, speed, altitude float64) Message {
	return Message{
		Header: Header{
			Type:      MsgAutopilotCommand,
			Sender:    sender,
			Receiver:  receiver,
			Timestamp: time.Now().Unix(),
		},
		AutopilotCommand: AutopilotCommand{
			TargetHeading:  heading,
			TargetSpeed:    speed,
			TargetAltitude: altitude,
		},
	}
}

// NewSystemStatus builds a SYSTEM_STATUS message.
func NewSystemStatus(sender, receiver ComponentID, active bool) Message {
	return Message{
		Header: Header{
			Type:      MsgSystemStatus,
			Sender:    sender,
			Receiver:  receiver,
			Timestamp: time.Now().Unix(),
		},
		SystemStatus: SystemStatus{ComponentActive: active},
	}
}

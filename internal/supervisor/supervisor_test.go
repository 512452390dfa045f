package supervisor

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksheeep/airplane-sim/internal/config"
	"github.com/blacksheeep/airplane-sim/internal/messages"
)

func TestHandlePositionUpdateFusesIntoState(t *testing.T) {
	sup := New(&config.Config{}, zerolog.Nop())

	pos := messages.Position{Latitude: 10, Longitude: 20, Altitude: 3000}
	sup.handle(messages.NewPositionUpdate(messages.ComponentGPS, messages.ComponentFlightController, pos))

	assert.Equal(t, pos, sup.State().Basic.Position)
}

func TestHandleAutopilotCommandUpdatesTargetsAndBasicState(t *testing.T) {
	sup := New(&config.Config{}, zerolog.Nop())

	cmd := messages.NewAutopilotCommand(messages.ComponentAutopilot, messages.ComponentFlightController, 180.0, 260.0, 12000.0)
	sup.handle(cmd)

	require.Equal(t, 180.0, sup.State().Basic.Heading)
	assert.Equal(t, 260.0, sup.State().Basic.Speed)
	assert.Equal(t, 12000.0, sup.State().Basic.Position.Altitude)
	assert.Equal(t, 180.0, sup.State().Autopilot.TargetHeading)
}

func TestHandleSystemStatusUpdatesConnectivity(t *testing.T) {
	sup := New(&config.Config{}, zerolog.Nop())

	sup.handle(messages.NewSystemStatus(messages.ComponentGPS, messages.ComponentFlightController, true))
	assert.True(t, sup.State().Status.GPSConnected)

	sup.handle(messages.NewSystemStatus(messages.ComponentGPS, messages.ComponentFlightController, false))
	assert.False(t, sup.State().Status.GPSConnected)
}

func TestHandleUnknownMessageTypeDoesNotPanic(t *testing.T) {
	sup := New(&config.Config{}, zerolog.Nop())
	assert.NotPanics(t, func() {
		sup.handle(messages.Message{Header: messages.Header{Type: messages.MessageType(99)}})
	})
}

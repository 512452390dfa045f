package autopilot

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/blacksheeep/airplane-sim/internal/config"
)

func newTestAutopilot() *Autopilot {
	cfg := &config.Autopilot{
		TargetHeading:   90.0,
		TargetAltitude:  10000.0,
		TargetSpeed:     250.0,
		MaxHeadingRate:  3.0,
		MaxClimbRate:    2000.0,
		MaxDescentRate:  2000.0,
		MinSpeed:        120.0,
		MaxSpeed:        400.0,
		HeadingPID:      config.PID{Kp: 1.0, Ki: 0, Kd: 0},
		AltitudePID:     config.PID{Kp: 0.05, Ki: 0, Kd: 0},
		SpeedPID:        config.PID{Kp: 0.5, Ki: 0, Kd: 0},
	}
	return New(nil, cfg, zerolog.Nop())
}

func TestStepHeadingSaturatesAtMaxRate(t *testing.T) {
	a := newTestAutopilot()
	// Large error (90 - 0 = 90) times Kp=1.0 vastly exceeds the 3 deg/tick
	// cap, so the step must saturate rather than jump straight to target.
	next := a.stepHeading(0.0)
	assert.InDelta(t, 3.0, next, 1e-9)
}

func TestStepHeadingWrapsAcrossZero(t *testing.T) {
	a := newTestAutopilot()
	a.cfg.TargetHeading = 2.0
	// current=359, target=2: shortest path is +3 degrees, wrapping past 360.
	next := a.stepHeading(359.0)
	assert.InDelta(t, 2.0, next, 1e-9)
}

func TestStepAltitudeBelowClimbRateIsNotClamped(t *testing.T) {
	a := newTestAutopilot()
	// error = 10000, kp=0.05 -> raw output 500, under the 2000 cap.
	next := a.stepAltitude(0.0)
	assert.InDelta(t, 500.0, next, 1e-9)
}

func TestStepAltitudeClampsToDescentRate(t *testing.T) {
	a := newTestAutopilot()
	a.cfg.TargetAltitude = 0
	// error = -50000, kp=0.05 -> raw output -2500, saturates at the -2000
	// descent cap.
	next := a.stepAltitude(50000.0)
	assert.InDelta(t, 48000.0, next, 1e-9)
}

func TestStepSpeedSaturatesAtEnvelopeMax(t *testing.T) {
	a := newTestAutopilot()
	a.cfg.TargetSpeed = 1000.0 // absurdly high target to force saturation
	next := a.stepSpeed(390.0)
	assert.InDelta(t, 400.0, next, 1e-9, "clamped candidate minus current is the applied delta")
}

func TestStepSpeedSaturatesAtEnvelopeMin(t *testing.T) {
	a := newTestAutopilot()
	a.cfg.TargetSpeed = 0.0
	next := a.stepSpeed(130.0)
	assert.InDelta(t, 120.0, next, 1e-9)
}

func TestDtSecondsMatchesTickInterval(t *testing.T) {
	assert.InDelta(t, 0.1, dtSeconds, 1e-9)
}

package autopilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPIDComputeProportionalOnly(t *testing.T) {
	p := newPID(2.0, 0, 0)
	out := p.compute(10.0, 0.1)
	assert.InDelta(t, 20.0, out, 1e-9)
}

func TestPIDComputeAccumulatesIntegral(t *testing.T) {
	p := newPID(0, 1.0, 0)

	out1 := p.compute(10.0, 0.1)
	assert.InDelta(t, 1.0, out1, 1e-9)

	out2 := p.compute(10.0, 0.1)
	assert.InDelta(t, 2.0, out2, 1e-9, "integral accumulates across ticks with no anti-windup")
}

func TestPIDComputeFirstTickDerivativeUsesZeroLastError(t *testing.T) {
	p := newPID(0, 0, 1.0)
	out := p.compute(5.0, 0.1)
	assert.InDelta(t, 50.0, out, 1e-9, "last error starts at zero, so derivative is (5-0)/0.1")
}

func TestPIDComputeDerivativeRespondsToErrorChange(t *testing.T) {
	p := newPID(0, 0, 1.0)
	p.compute(5.0, 0.1)
	out := p.compute(10.0, 0.1)
	assert.InDelta(t, 50.0, out, 1e-9) // (10-5)/0.1
}

func TestPIDReset(t *testing.T) {
	p := newPID(0, 1.0, 1.0)
	p.compute(10.0, 0.1)
	p.reset()

	// After reset: integral 10*0.1 = 1, derivative (10-0)/0.1 = 100. Without
	// the reset this tick would give integral 2 and derivative 0.
	out := p.compute(10.0, 0.1)
	assert.InDelta(t, 101.0, out, 1e-9, "integral and derivative state should be cleared")
}

func TestNormalizeAngleWrapsToShortestSignedPath(t *testing.T) {
	assert.InDelta(t, -10.0, normalizeAngle(350.0), 1e-9)
	assert.InDelta(t, 170.0, normalizeAngle(170.0), 1e-9)
	assert.InDelta(t, -170.0, normalizeAngle(-170.0), 1e-9)
	assert.InDelta(t, 0.0, normalizeAngle(360.0), 1e-9)
}

func TestWrapHeadingStaysWithinCompassRange(t *testing.T) {
	assert.InDelta(t, 1.0, wrapHeading(361.0), 1e-9)
	assert.InDelta(t, 359.0, wrapHeading(-1.0), 1e-9)
	assert.InDelta(t, 0.0, wrapHeading(0.0), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(10, 0, 5))
	assert.Equal(t, 0.0, clamp(-10, 0, 5))
	assert.Equal(t, 3.0, clamp(3, 0, 5))
}

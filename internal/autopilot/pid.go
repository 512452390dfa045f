package autopilot

// pidController is a textbook discrete PID with no anti-windup, matching
// original_source/src/core/autopilot.c's pid_compute — the integral term
// accumulates unconditionally every tick, which is a known limitation
// left unaddressed deliberately (see DESIGN.md, Module C). prevError
// starts at zero, so the first tick's derivative is errVal/dt.
type pidController struct {
	kp, ki, kd float64

	integral  float64
	prevError float64
}

func newPID(kp, ki, kd float64) *pidController {
	return &pidController{kp: kp, ki: ki, kd: kd}
}

// compute returns the controller's output for the given error over dt
// seconds, updating internal integral/derivative state.
func (p *pidController) compute(errVal, dt float64) float64 {
	p.integral += errVal * dt

	derivative := 0.0
	if dt > 0 {
		derivative = (errVal - p.prevError) / dt
	}
	p.prevError = errVal

	return p.kp*errVal + p.ki*p.integral + p.kd*derivative
}

func (p *pidController) reset() {
	p.integral = 0
	p.prevError = 0
}

package driven

// Actuator commands motor power for one side of the drivetrain.
type Actuator interface {
	// Set commands motor power. Callers clamp power to [-1, 1] before
	// calling; implementations never receive out-of-range values.
	Set(power float64)

	// Stop immediately commands zero power.
	Stop()
}

// DistanceSensor reports accumulated linear distance for one drive side.
// The distance is derived externally from pulse count times distance per pulse.
type DistanceSensor interface {
	// Distance returns the distance travelled since the last reset.
	Distance() float64

	// Reset zeroes the accumulated distance immediately.
	Reset()
}

// HeadingSensor reports the robot heading.
type HeadingSensor interface {
	// Heading returns the accumulated heading in degrees.
	Heading() float64

	// Reset zeroes the heading immediately.
	Reset()

	// Calibrate measures and removes sensor drift. The robot must be still.
	Calibrate() error
}

// HeadingSensorFactory opens the heading sensor. Construction may fail
// when the hardware is missing.
type HeadingSensorFactory func() (HeadingSensor, error)

// AxisReader provides instantaneous raw human-input axis values in [-1, 1].
type AxisReader interface {
	Axis(id int) float64
}

// ClawActuator drives the claw open or closed.
type ClawActuator interface {
	SetOpen(open bool)
}

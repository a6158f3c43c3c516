package driving

import "github.com/team151/robotcore/internal/core/domain"

// Drivetrain is the differential drive subsystem as seen by tasks.
type Drivetrain interface {
	// Resource returns the resource tasks must require to drive.
	Resource() domain.Resource

	// DriveTank drives each side at the given power, clamped to [-1, 1].
	DriveTank(left, right float64)

	// DriveArcade mixes throttle and turn into side powers and drives.
	DriveArcade(throttle, turn float64)

	// DriveFromInput reads the human-input axes, applies the deadzone and
	// drives in the given mode.
	DriveFromInput(mode domain.DriveMode)

	// Stop commands zero power on both sides.
	Stop()

	// LastOutput returns the clamped powers last written to the actuators.
	LastOutput() domain.WheelPowers

	// TraveledDistance returns the left side distance only.
	TraveledDistance() float64

	// AveragedEncoderDistance returns the mean of both side distances.
	AveragedEncoderDistance() float64

	// SideDistance returns the distance for one side.
	SideDistance(side domain.Side) float64

	// ResetEncoders zeroes both side distances.
	ResetEncoders()

	// ResetHeading zeroes the heading.
	// Returns domain.ErrHardwareUnavailable if there is no heading sensor.
	ResetHeading() error

	// ResetAll zeroes both distances and the heading.
	// Encoders are always reset; returns domain.ErrHardwareUnavailable if
	// there is no heading sensor.
	ResetAll() error

	// Heading returns the heading in degrees.
	// Returns domain.ErrHardwareUnavailable if there is no heading sensor.
	Heading() (float64, error)

	// HasHeading reports whether the heading sensor is available.
	HasHeading() bool

	// Gains returns the current mixer gains.
	Gains() domain.DriveGains

	// SetGains replaces the mixer gains.
	SetGains(gains domain.DriveGains) error
}

// Claw is the cube claw subsystem.
type Claw interface {
	Resource() domain.Resource
	Open()
	Close()
	IsOpen() bool
}

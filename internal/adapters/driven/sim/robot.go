package sim

import (
	"math"
	"time"

	"github.com/team151/robotcore/internal/core/ports/driven"
)

// Default physical parameters of the simulated robot.
const (
	// DefaultTopSpeed is the wheel surface speed at full power, in inches per second.
	DefaultTopSpeed = 120.0

	// DefaultTrackWidth is the distance between the left and right wheels, in inches.
	DefaultTrackWidth = 24.0
)

// Robot wires simulated components into a differential drive robot and
// integrates motor power into encoder distance and heading.
type Robot struct {
	LeftMotor    *Motor
	RightMotor   *Motor
	LeftEncoder  *Encoder
	RightEncoder *Encoder
	Gyro         *Gyro
	Joystick     *Joystick
	Claw         *Claw

	TopSpeed   float64
	TrackWidth float64

	// GyroMissing makes HeadingFactory report a missing sensor.
	GyroMissing bool
}

// NewRobot creates a simulated robot.
func NewRobot(distancePerPulse float64) *Robot {
	return &Robot{
		LeftMotor:    NewMotor(),
		RightMotor:   NewMotor(),
		LeftEncoder:  NewEncoder(distancePerPulse),
		RightEncoder: NewEncoder(distancePerPulse),
		Gyro:         NewGyro(),
		Joystick:     NewJoystick(),
		Claw:         NewClaw(),
		TopSpeed:     DefaultTopSpeed,
		TrackWidth:   DefaultTrackWidth,
	}
}

// HeadingFactory opens the simulated gyro.
func (r *Robot) HeadingFactory() driven.HeadingSensorFactory {
	return func() (driven.HeadingSensor, error) {
		if r.GyroMissing {
			return nil, ErrGyroMissing
		}
		return r.Gyro, nil
	}
}

// Step advances the physics by dt using the current motor powers.
// Positive heading is clockwise, matching a gyro mounted face up.
func (r *Robot) Step(dt time.Duration) {
	secs := dt.Seconds()
	left := r.LeftMotor.Power() * r.TopSpeed * secs
	right := r.RightMotor.Power() * r.TopSpeed * secs

	r.LeftEncoder.AddDistance(left)
	r.RightEncoder.AddDistance(right)

	if r.TrackWidth > 0 {
		radians := (left - right) / r.TrackWidth
		r.Gyro.Rotate(radians * 180 / math.Pi)
	}
}

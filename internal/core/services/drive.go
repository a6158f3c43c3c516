package services

import (
	"fmt"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
	"github.com/team151/robotcore/internal/logger"
)

// Ensure DriveSubsystem implements the interface.
var _ driving.Drivetrain = (*DriveSubsystem)(nil)

// DriveHardware is the set of ports a drivetrain owns exclusively.
type DriveHardware struct {
	Left          driven.Actuator
	Right         driven.Actuator
	LeftDistance  driven.DistanceSensor
	RightDistance driven.DistanceSensor

	// Heading opens the gyro. Optional: nil or a failing factory leaves the
	// subsystem without heading data.
	Heading driven.HeadingSensorFactory

	// Input supplies joystick axes for DriveFromInput. Optional.
	Input driven.AxisReader
}

// DriveSubsystem owns the drivetrain actuators and sensors.
// It is mutated only by the task holding domain.ResourceDrivetrain; the
// scheduler's single-threaded tick is the only synchronisation.
type DriveSubsystem struct {
	left          driven.Actuator
	right         driven.Actuator
	leftDistance  driven.DistanceSensor
	rightDistance driven.DistanceSensor
	heading       driven.HeadingSensor
	input         driven.AxisReader

	mixer    Mixer
	deadzone float64
	axes     domain.AxisMap
	last     domain.WheelPowers
}

// NewDriveSubsystem creates the drivetrain. Actuators and distance sensors
// are required. A missing or failing heading sensor is not an error: the
// subsystem is returned with HasHeading() == false.
func NewDriveSubsystem(hw DriveHardware) (*DriveSubsystem, error) {
	if hw.Left == nil || hw.Right == nil {
		return nil, fmt.Errorf("%w: drive actuators are required", domain.ErrInvalidInput)
	}
	if hw.LeftDistance == nil || hw.RightDistance == nil {
		return nil, fmt.Errorf("%w: drive distance sensors are required", domain.ErrInvalidInput)
	}

	d := &DriveSubsystem{
		left:          hw.Left,
		right:         hw.Right,
		leftDistance:  hw.LeftDistance,
		rightDistance: hw.RightDistance,
		input:         hw.Input,
		mixer:         NewMixer(domain.DefaultDriveGains()),
		deadzone:      domain.DefaultDeadzone,
		axes:          domain.DefaultAxisMap(),
	}

	d.leftDistance.Reset()
	d.rightDistance.Reset()

	heading, err := openHeading(hw.Heading)
	if err != nil {
		logger.Warn("drivetrain: heading sensor missing, continuing without heading: %v", err)
	}
	d.heading = heading

	return d, nil
}

// openHeading opens, calibrates and zeroes the heading sensor.
func openHeading(factory driven.HeadingSensorFactory) (driven.HeadingSensor, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: no heading sensor configured", domain.ErrHardwareUnavailable)
	}
	sensor, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHardwareUnavailable, err)
	}
	if sensor == nil {
		return nil, fmt.Errorf("%w: heading factory returned no sensor", domain.ErrHardwareUnavailable)
	}
	if err := sensor.Calibrate(); err != nil {
		return nil, fmt.Errorf("%w: calibrating heading: %v", domain.ErrHardwareUnavailable, err)
	}
	sensor.Reset()
	return sensor, nil
}

// Resource returns the drivetrain resource.
func (d *DriveSubsystem) Resource() domain.Resource {
	return domain.ResourceDrivetrain
}

// SetDeadzone sets the joystick deadzone threshold.
func (d *DriveSubsystem) SetDeadzone(threshold float64) error {
	if err := domain.ValidateDeadzone(threshold); err != nil {
		return err
	}
	d.deadzone = threshold
	return nil
}

// SetAxisMap sets which raw axes drive which controls.
func (d *DriveSubsystem) SetAxisMap(axes domain.AxisMap) {
	d.axes = axes
}

// Gains returns the current mixer gains.
func (d *DriveSubsystem) Gains() domain.DriveGains {
	return d.mixer.Gains
}

// SetGains replaces the mixer gains. Tasks must not assume gains are stable
// across ticks.
func (d *DriveSubsystem) SetGains(gains domain.DriveGains) error {
	if err := gains.Validate(); err != nil {
		return err
	}
	d.mixer.Gains = gains
	return nil
}

// Apply configures gains, deadzone and axes from settings. Nothing changes
// unless every value is valid.
func (d *DriveSubsystem) Apply(settings *domain.RobotSettings) error {
	if err := settings.Drive.Gains.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateDeadzone(settings.Drive.Deadzone); err != nil {
		return err
	}
	d.mixer.Gains = settings.Drive.Gains
	d.deadzone = settings.Drive.Deadzone
	d.axes = settings.Input.Axes
	return nil
}

// DriveTank drives each side at the given power.
func (d *DriveSubsystem) DriveTank(left, right float64) {
	d.write(d.mixer.Tank(left, right))
}

// DriveArcade mixes throttle and turn and drives.
func (d *DriveSubsystem) DriveArcade(throttle, turn float64) {
	d.write(d.mixer.Arcade(throttle, turn))
}

// DriveFromInput reads the joystick, applies the deadzone and drives.
// Without an input device the drivetrain is stopped.
func (d *DriveSubsystem) DriveFromInput(mode domain.DriveMode) {
	if d.input == nil {
		d.Stop()
		return
	}

	switch mode {
	case domain.DriveModeTank:
		d.DriveTank(d.axis(d.axes.LeftVertical), d.axis(d.axes.RightVertical))
	default:
		d.DriveArcade(d.axis(d.axes.LeftVertical), d.axis(d.axes.RightLateral))
	}
}

func (d *DriveSubsystem) axis(id int) float64 {
	return Deadzone(d.input.Axis(id), d.deadzone)
}

// write clamps and forwards powers to the actuators.
func (d *DriveSubsystem) write(p domain.WheelPowers) {
	out := domain.WheelPowers{Left: Clamp(p.Left), Right: Clamp(p.Right)}
	d.left.Set(out.Left)
	d.right.Set(out.Right)
	d.last = out
}

// Stop commands zero power on both sides.
func (d *DriveSubsystem) Stop() {
	d.left.Stop()
	d.right.Stop()
	d.last = domain.WheelPowers{}
}

// LastOutput returns the powers last written to the actuators.
func (d *DriveSubsystem) LastOutput() domain.WheelPowers {
	return d.last
}

// TraveledDistance returns the distance reported by the left encoder.
// Unlike AveragedEncoderDistance it ignores the right side.
func (d *DriveSubsystem) TraveledDistance() float64 {
	return d.leftDistance.Distance()
}

// AveragedEncoderDistance returns the mean of both side distances.
func (d *DriveSubsystem) AveragedEncoderDistance() float64 {
	return (d.leftDistance.Distance() + d.rightDistance.Distance()) / 2
}

// SideDistance returns the distance for one side.
func (d *DriveSubsystem) SideDistance(side domain.Side) float64 {
	if side == domain.SideRight {
		return d.rightDistance.Distance()
	}
	return d.leftDistance.Distance()
}

// ResetEncoders zeroes both side distances.
func (d *DriveSubsystem) ResetEncoders() {
	d.leftDistance.Reset()
	d.rightDistance.Reset()
}

// ResetHeading zeroes the heading.
func (d *DriveSubsystem) ResetHeading() error {
	if d.heading == nil {
		return domain.ErrHardwareUnavailable
	}
	d.heading.Reset()
	return nil
}

// ResetAll zeroes the encoders and the heading. The encoders are reset even
// when the heading sensor is missing.
func (d *DriveSubsystem) ResetAll() error {
	d.ResetEncoders()
	return d.ResetHeading()
}

// Heading returns the heading in degrees.
func (d *DriveSubsystem) Heading() (float64, error) {
	if d.heading == nil {
		return 0, domain.ErrHardwareUnavailable
	}
	return d.heading.Heading(), nil
}

// HasHeading reports whether the heading sensor is available.
func (d *DriveSubsystem) HasHeading() bool {
	return d.heading != nil
}

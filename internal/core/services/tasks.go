package services

import (
	"math"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driving"
)

// Task names used in logs and the journal.
const (
	TaskDriveWithJoysticks = "drive-with-joysticks"
	TaskDriveDistance      = "drive-distance"
	TaskStopDrive          = "stop-drive"
	TaskOpenClaw           = "open-claw"
	TaskCloseClaw          = "close-claw"
	TaskApplyGains         = "apply-gains"
	TaskApplySettings      = "apply-settings"
)

// NewDriveWithJoysticks creates the continuous human-driving task. It is the
// usual default task for the drivetrain.
func NewDriveWithJoysticks(drive driving.Drivetrain, mode domain.DriveMode) *Command {
	return NewCommand(TaskDriveWithJoysticks, CommandHooks{
		Execute: func() error {
			drive.DriveFromInput(mode)
			return nil
		},
		Interrupted: drive.Stop,
	}, drive.Resource())
}

// NewDriveDistance creates a task that drives straight until the averaged
// encoder distance reaches the target. The sign of distance sets the
// direction; power is the magnitude in [0, 1].
func NewDriveDistance(drive driving.Drivetrain, distance, power float64) *Command {
	target := math.Abs(distance)
	speed := math.Copysign(Clamp(math.Abs(power)), distance)

	stop := func() error {
		drive.Stop()
		return nil
	}
	return NewCommand(TaskDriveDistance, CommandHooks{
		Initialize: func() error {
			drive.ResetEncoders()
			return nil
		},
		Execute: func() error {
			drive.DriveTank(speed, speed)
			return nil
		},
		IsFinished: func() bool {
			return math.Abs(drive.AveragedEncoderDistance()) >= target
		},
		End:         stop,
		Interrupted: drive.Stop,
	}, drive.Resource())
}

// NewStopDrive creates a one-shot task that stops the drivetrain.
func NewStopDrive(drive driving.Drivetrain) *OneShot {
	return NewOneShot(TaskStopDrive, func() error {
		drive.Stop()
		return nil
	}, drive.Resource())
}

// NewOpenClaw creates a one-shot task that opens the claw.
func NewOpenClaw(claw driving.Claw) *OneShot {
	return NewOneShot(TaskOpenClaw, func() error {
		claw.Open()
		return nil
	}, claw.Resource())
}

// NewCloseClaw creates a one-shot task that closes the claw.
func NewCloseClaw(claw driving.Claw) *OneShot {
	return NewOneShot(TaskCloseClaw, func() error {
		claw.Close()
		return nil
	}, claw.Resource())
}

// NewApplyGains creates a one-shot task that replaces the drive gains. It
// requires no resources, so it never displaces the task driving the robot.
func NewApplyGains(drive driving.Drivetrain, gains domain.DriveGains) *OneShot {
	return NewOneShot(TaskApplyGains, func() error {
		return drive.SetGains(gains)
	})
}

// SettingsApplier accepts a full settings snapshot.
type SettingsApplier interface {
	Apply(settings *domain.RobotSettings) error
}

// NewApplySettings creates a one-shot task that applies reloaded settings
// on the scheduler thread.
func NewApplySettings(target SettingsApplier, settings *domain.RobotSettings) *OneShot {
	return NewOneShot(TaskApplySettings, func() error {
		return target.Apply(settings)
	})
}

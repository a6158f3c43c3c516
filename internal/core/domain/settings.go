package domain

import (
	"fmt"
	"math"
	"time"
)

// Scheduling and journal defaults.
const (
	// DefaultPeriod is the scheduler tick period (50 Hz).
	DefaultPeriod = 20 * time.Millisecond

	// DefaultDistancePerPulse converts encoder pulses to inches for a 6" wheel
	// on a 360 pulse-per-revolution encoder.
	DefaultDistancePerPulse = 6 * math.Pi / 360

	// DefaultJournalKeep is how many runs per task the journal retains.
	DefaultJournalKeep = 100
)

// RobotSettings holds all tunable robot configuration.
type RobotSettings struct {
	Drive     DriveSettings
	Input     InputSettings
	Scheduler SchedulerSettings
}

// DriveSettings holds drivetrain tuning.
type DriveSettings struct {
	// Gains are the arcade mixer gains.
	Gains DriveGains

	// Deadzone is the joystick noise rejection threshold (inclusive).
	Deadzone float64

	// Mode selects how the default joystick task mixes input.
	Mode DriveMode

	// DistancePerPulse converts encoder pulses to distance units.
	DistancePerPulse float64
}

// InputSettings holds human input axis mapping.
type InputSettings struct {
	Axes AxisMap
}

// SchedulerSettings holds scheduler timing and journal retention.
type SchedulerSettings struct {
	// Period is the fixed tick period.
	Period time.Duration

	// JournalKeep is how many runs per task to keep when pruning.
	JournalKeep int
}

// DefaultRobotSettings returns sensible defaults.
func DefaultRobotSettings() RobotSettings {
	return RobotSettings{
		Drive: DriveSettings{
			Gains:            DefaultDriveGains(),
			Deadzone:         DefaultDeadzone,
			Mode:             DriveModeArcade,
			DistancePerPulse: DefaultDistancePerPulse,
		},
		Input: InputSettings{
			Axes: DefaultAxisMap(),
		},
		Scheduler: SchedulerSettings{
			Period:      DefaultPeriod,
			JournalKeep: DefaultJournalKeep,
		},
	}
}

// Validate checks the gains for usable values.
func (g DriveGains) Validate() error {
	if !isFiniteNonNegative(g.TurnGain) {
		return fmt.Errorf("%w: turn gain must be a finite non-negative number, got %v", ErrInvalidInput, g.TurnGain)
	}
	if !isFiniteNonNegative(g.StraightGain) {
		return fmt.Errorf("%w: straight gain must be a finite non-negative number, got %v", ErrInvalidInput, g.StraightGain)
	}
	return nil
}

// ValidateDeadzone checks a deadzone threshold lies in [0, 1).
func ValidateDeadzone(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold >= 1 {
		return fmt.Errorf("%w: deadzone must be in [0, 1), got %v", ErrInvalidInput, threshold)
	}
	return nil
}

// Validate checks the settings for consistency.
func (s *RobotSettings) Validate() error {
	if err := s.Drive.Gains.Validate(); err != nil {
		return err
	}
	if err := ValidateDeadzone(s.Drive.Deadzone); err != nil {
		return err
	}
	if !s.Drive.Mode.IsValid() {
		return fmt.Errorf("%w: unknown drive mode %q", ErrInvalidInput, s.Drive.Mode)
	}
	if !(s.Drive.DistancePerPulse > 0) || math.IsInf(s.Drive.DistancePerPulse, 0) {
		return fmt.Errorf("%w: distance per pulse must be positive", ErrInvalidInput)
	}
	axes := s.Input.Axes
	if axes.LeftVertical < 0 || axes.RightVertical < 0 || axes.RightLateral < 0 {
		return fmt.Errorf("%w: axis ids must be non-negative", ErrInvalidInput)
	}
	if s.Scheduler.Period <= 0 {
		return fmt.Errorf("%w: scheduler period must be positive", ErrInvalidInput)
	}
	if s.Scheduler.JournalKeep < 0 {
		return fmt.Errorf("%w: journal keep must not be negative", ErrInvalidInput)
	}
	return nil
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

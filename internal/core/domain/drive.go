package domain

// Side identifies one half of a differential drive.
type Side int

// Drive sides.
const (
	SideLeft Side = iota
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// DriveMode selects how human input is mixed into wheel powers.
type DriveMode string

// Drive modes.
const (
	// DriveModeTank maps each stick's vertical axis to one side.
	DriveModeTank DriveMode = "tank"

	// DriveModeArcade maps throttle and turn axes through the arcade mixer.
	DriveModeArcade DriveMode = "arcade"
)

// IsValid returns true if the drive mode is recognised.
func (m DriveMode) IsValid() bool {
	return m == DriveModeTank || m == DriveModeArcade
}

// String returns the string representation.
func (m DriveMode) String() string {
	return string(m)
}

// DriveIntent is a throttle/turn request, each nominally in [-1, 1].
type DriveIntent struct {
	Throttle float64
	Turn     float64
}

// WheelPowers is a left/right power pair. Values produced by the mixer may
// transiently exceed [-1, 1]; they are clamped at the actuator boundary.
type WheelPowers struct {
	Left  float64
	Right float64
}

// DriveGains are the tunable mixer gains.
type DriveGains struct {
	// TurnGain scales turn authority.
	TurnGain float64

	// StraightGain scales the final side outputs.
	StraightGain float64
}

// Default mixer tuning.
const (
	DefaultTurnGain     = 0.75
	DefaultStraightGain = 1.00
	DefaultDeadzone     = 0.04
)

// DefaultDriveGains returns the factory mixer gains.
func DefaultDriveGains() DriveGains {
	return DriveGains{
		TurnGain:     DefaultTurnGain,
		StraightGain: DefaultStraightGain,
	}
}

// AxisMap assigns raw input axis ids to drive controls.
type AxisMap struct {
	// LeftVertical drives the left side in tank mode and throttle in arcade mode.
	LeftVertical int

	// RightVertical drives the right side in tank mode.
	RightVertical int

	// RightLateral is the turn axis in arcade mode.
	RightLateral int
}

// DefaultAxisMap returns the axis layout of a dual-stick gamepad.
func DefaultAxisMap() AxisMap {
	return AxisMap{
		LeftVertical:  1,
		RightVertical: 5,
		RightLateral:  4,
	}
}

package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/team151/robotcore/internal/core/domain"
)

const epsilon = 1e-9

func TestSkim(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 0},
		{-1, 0},
		{0.999, 0},
		{-0.5, 0},
		{1.5, -0.5},
		{-1.3, 0.3},
		{1.75, -0.75},
		{-2, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Skim(tt.in), epsilon, "Skim(%v)", tt.in)
	}
}

func TestSkim_ZeroInsideRange(t *testing.T) {
	for v := -1.0; v <= 1.0; v += 0.01 {
		assert.Equal(t, 0.0, Skim(v), "Skim(%v)", v)
	}
}

func TestDeadzone(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.03, 0},
		{0.05, 0.05},
		{-0.04, 0},
		{0.04, 0},
		{-0.05, -0.05},
		{0, 0},
		{1, 1},
		{-1, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Deadzone(tt.in, domain.DefaultDeadzone), "Deadzone(%v)", tt.in)
	}
}

func TestDeadzone_CustomThreshold(t *testing.T) {
	assert.Equal(t, 0.0, Deadzone(0.1, 0.1))
	assert.Equal(t, 0.11, Deadzone(0.11, 0.1))
	assert.Equal(t, 0.01, Deadzone(0.01, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.75))
	assert.Equal(t, -1.0, Clamp(-3))
	assert.Equal(t, 0.5, Clamp(0.5))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 1.0, Clamp(math.Inf(1)))
	assert.Equal(t, -1.0, Clamp(math.Inf(-1)))
}

func TestMixer_TankIsIdentity(t *testing.T) {
	m := NewMixer(domain.DefaultDriveGains())

	got := m.Tank(0.3, -1.4)
	assert.Equal(t, domain.WheelPowers{Left: 0.3, Right: -1.4}, got)
}

func TestMixer_ArcadeZero(t *testing.T) {
	m := NewMixer(domain.DefaultDriveGains())

	assert.Equal(t, domain.WheelPowers{}, m.Arcade(0, 0))
}

func TestMixer_ArcadeFullForwardFullTurn(t *testing.T) {
	m := NewMixer(domain.DriveGains{TurnGain: 0.75, StraightGain: 1.0})

	got := m.Arcade(1.0, 1.0)

	// turn' = 0.75, rawLeft = 0.25, rawRight = 1.75, skim(1.75) = -0.75.
	assert.InDelta(t, -0.5, got.Left, epsilon)
	assert.InDelta(t, 1.75, got.Right, epsilon)
}

func TestMixer_ArcadeStationaryFullTurnAuthority(t *testing.T) {
	m := NewMixer(domain.DriveGains{TurnGain: 0.75, StraightGain: 1.0})

	for _, turn := range []float64{-1, -0.5, 0.2, 1} {
		got := m.Arcade(0, turn)
		turnPrime := 0.75 * turn
		assert.InDelta(t, -turnPrime, got.Left, epsilon, "turn=%v", turn)
		assert.InDelta(t, turnPrime, got.Right, epsilon, "turn=%v", turn)
	}
}

func TestMixer_ArcadeTurnScalesWithThrottle(t *testing.T) {
	m := NewMixer(domain.DriveGains{TurnGain: 0.75, StraightGain: 1.0})

	for _, throttle := range []float64{-0.8, -0.1, 0.001, 0.5} {
		turn := 0.6
		got := m.Arcade(throttle, turn)
		turnPrime := 0.75 * turn * math.Abs(throttle)
		assert.InDelta(t, throttle-turnPrime, got.Left, epsilon, "throttle=%v", throttle)
		assert.InDelta(t, throttle+turnPrime, got.Right, epsilon, "throttle=%v", throttle)
	}
}

func TestMixer_ArcadeDiscontinuityAtZeroThrottle(t *testing.T) {
	m := NewMixer(domain.DefaultDriveGains())

	atZero := m.Arcade(0, 1)
	justAbove := m.Arcade(1e-6, 1)
	justBelow := m.Arcade(-1e-6, 1)

	assert.InDelta(t, 0.75, atZero.Right, epsilon)
	assert.Less(t, justAbove.Right, 0.01)
	assert.Less(t, math.Abs(justBelow.Right), 0.01)
}

func TestMixer_ArcadeReverseOverflow(t *testing.T) {
	m := NewMixer(domain.DriveGains{TurnGain: 0.75, StraightGain: 1.0})

	// Full reverse with a hard left: rawLeft = -0.25, rawRight = -1.75.
	got := m.Arcade(-1, -1)
	assert.InDelta(t, -0.25+0.75, got.Left, epsilon)
	assert.InDelta(t, -1.75, got.Right, epsilon)
}

func TestMixer_ArcadeStraightGain(t *testing.T) {
	m := NewMixer(domain.DriveGains{TurnGain: 0.75, StraightGain: 0.5})

	got := m.Arcade(0.8, 0)
	assert.InDelta(t, 0.4, got.Left, epsilon)
	assert.InDelta(t, 0.4, got.Right, epsilon)
}

func TestMixer_ArcadeStraightNoSkim(t *testing.T) {
	m := NewMixer(domain.DefaultDriveGains())

	got := m.Arcade(1, 0)
	assert.Equal(t, domain.WheelPowers{Left: 1, Right: 1}, got)
}

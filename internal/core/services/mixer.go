package services

import (
	"math"

	"github.com/team151/robotcore/internal/core/domain"
)

// Mixer converts drive intents into side powers. It has no state beyond its
// gains and never clamps; clamping happens at the actuator boundary.
type Mixer struct {
	Gains domain.DriveGains
}

// NewMixer creates a mixer with the given gains.
func NewMixer(gains domain.DriveGains) Mixer {
	return Mixer{Gains: gains}
}

// Tank passes the two axis values through as side powers unchanged.
func (m Mixer) Tank(left, right float64) domain.WheelPowers {
	return domain.WheelPowers{Left: left, Right: right}
}

// Arcade mixes throttle and turn into side powers.
//
// Turn authority scales with |throttle| while moving and is full when
// stationary, so the output is discontinuous at throttle == 0. When one side
// overflows the linear range, the overflow is taken from the opposite side
// to keep the commanded turning ratio.
func (m Mixer) Arcade(throttle, turn float64) domain.WheelPowers {
	if throttle != 0 {
		turn = m.Gains.TurnGain * turn * math.Abs(throttle)
	} else {
		turn *= m.Gains.TurnGain
	}

	rawLeft := throttle - turn
	rawRight := throttle + turn

	return domain.WheelPowers{
		Left:  m.Gains.StraightGain * (rawLeft + Skim(rawRight)),
		Right: m.Gains.StraightGain * (rawRight + Skim(rawLeft)),
	}
}

// Skim returns the negated overflow of v beyond [-1, 1], or 0 inside it.
func Skim(v float64) float64 {
	switch {
	case v > 1.0:
		return -(v - 1.0)
	case v < -1.0:
		return -(v + 1.0)
	default:
		return 0
	}
}

// Deadzone returns 0 when v lies within [-threshold, threshold], else v.
func Deadzone(v, threshold float64) float64 {
	if v > threshold || v < -threshold {
		return v
	}
	return 0
}

// Clamp limits v to [-1, 1]. NaN becomes 0 so a bad reading never reaches a motor.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

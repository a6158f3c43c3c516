package sim

import (
	"errors"
	"sync"

	"github.com/team151/robotcore/internal/core/ports/driven"
)

// Ensure components implement the ports.
var (
	_ driven.Actuator       = (*Motor)(nil)
	_ driven.DistanceSensor = (*Encoder)(nil)
	_ driven.HeadingSensor  = (*Gyro)(nil)
	_ driven.AxisReader     = (*Joystick)(nil)
	_ driven.ClawActuator   = (*Claw)(nil)
)

// ErrGyroMissing is returned by a gyro factory configured as absent.
var ErrGyroMissing = errors.New("gyro not detected")

// Motor is a simulated speed controller.
type Motor struct {
	mu    sync.RWMutex
	power float64
	sets  int
}

// NewMotor creates a stopped motor.
func NewMotor() *Motor {
	return &Motor{}
}

// Set commands motor power.
func (m *Motor) Set(power float64) {
	m.mu.Lock()
	m.power = power
	m.sets++
	m.mu.Unlock()
}

// Stop commands zero power.
func (m *Motor) Stop() {
	m.Set(0)
}

// Power returns the last commanded power.
func (m *Motor) Power() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.power
}

// Writes returns how many times power was commanded.
func (m *Motor) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// Encoder is a simulated quadrature encoder. Distance is pulses times
// distance per pulse.
type Encoder struct {
	mu               sync.RWMutex
	pulses           float64
	distancePerPulse float64
}

// NewEncoder creates a zeroed encoder.
func NewEncoder(distancePerPulse float64) *Encoder {
	return &Encoder{distancePerPulse: distancePerPulse}
}

// Distance returns the distance since the last reset.
func (e *Encoder) Distance() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pulses * e.distancePerPulse
}

// Pulses returns the raw pulse count since the last reset.
func (e *Encoder) Pulses() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pulses
}

// Reset zeroes the pulse count.
func (e *Encoder) Reset() {
	e.mu.Lock()
	e.pulses = 0
	e.mu.Unlock()
}

// AddDistance advances the encoder by a linear distance.
func (e *Encoder) AddDistance(d float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.distancePerPulse == 0 {
		return
	}
	e.pulses += d / e.distancePerPulse
}

// SetDistancePerPulse changes the pulse scaling.
func (e *Encoder) SetDistancePerPulse(dpp float64) {
	e.mu.Lock()
	e.distancePerPulse = dpp
	e.mu.Unlock()
}

// Gyro is a simulated heading sensor.
type Gyro struct {
	mu           sync.RWMutex
	heading      float64
	calibrations int
	calibrateErr error
}

// NewGyro creates a gyro at heading zero.
func NewGyro() *Gyro {
	return &Gyro{}
}

// Heading returns the accumulated heading in degrees.
func (g *Gyro) Heading() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.heading
}

// Reset zeroes the heading.
func (g *Gyro) Reset() {
	g.mu.Lock()
	g.heading = 0
	g.mu.Unlock()
}

// Calibrate returns the configured calibration error, if any.
func (g *Gyro) Calibrate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calibrations++
	return g.calibrateErr
}

// FailCalibration makes the next calibrations fail with err.
func (g *Gyro) FailCalibration(err error) {
	g.mu.Lock()
	g.calibrateErr = err
	g.mu.Unlock()
}

// Rotate adds degrees to the heading.
func (g *Gyro) Rotate(degrees float64) {
	g.mu.Lock()
	g.heading += degrees
	g.mu.Unlock()
}

// Joystick is a simulated driver controller.
type Joystick struct {
	mu   sync.RWMutex
	axes map[int]float64
}

// NewJoystick creates a joystick with every axis centred.
func NewJoystick() *Joystick {
	return &Joystick{axes: make(map[int]float64)}
}

// Axis returns the raw value of an axis. Unknown axes read 0.
func (j *Joystick) Axis(id int) float64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.axes[id]
}

// SetAxis moves an axis.
func (j *Joystick) SetAxis(id int, value float64) {
	j.mu.Lock()
	j.axes[id] = value
	j.mu.Unlock()
}

// Claw is a simulated pneumatic claw.
type Claw struct {
	mu      sync.RWMutex
	open    bool
	changes int
}

// NewClaw creates a closed claw.
func NewClaw() *Claw {
	return &Claw{}
}

// SetOpen drives the claw open or closed.
func (c *Claw) SetOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open != open {
		c.changes++
	}
	c.open = open
}

// IsOpen reports the claw position.
func (c *Claw) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// Changes returns how many times the claw moved.
func (c *Claw) Changes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changes
}

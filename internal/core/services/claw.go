package services

import (
	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/core/ports/driving"
)

// Ensure ClawSubsystem implements the interface.
var _ driving.Claw = (*ClawSubsystem)(nil)

// ClawSubsystem owns the claw actuator.
type ClawSubsystem struct {
	actuator driven.ClawActuator
	open     bool
}

// NewClawSubsystem creates the claw subsystem. The claw starts closed.
func NewClawSubsystem(actuator driven.ClawActuator) *ClawSubsystem {
	actuator.SetOpen(false)
	return &ClawSubsystem{actuator: actuator}
}

// Resource returns the claw resource.
func (c *ClawSubsystem) Resource() domain.Resource {
	return domain.ResourceClaw
}

// Open opens the claw.
func (c *ClawSubsystem) Open() {
	c.actuator.SetOpen(true)
	c.open = true
}

// Close closes the claw.
func (c *ClawSubsystem) Close() {
	c.actuator.SetOpen(false)
	c.open = false
}

// IsOpen reports the last commanded claw position.
func (c *ClawSubsystem) IsOpen() bool {
	return c.open
}

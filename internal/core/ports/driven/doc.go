// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and hardware or storage adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the drivetrain to function:
//
//   - Actuator: Per-side motor power output
//   - DistanceSensor: Per-side accumulated distance (encoders)
//   - AxisReader: Raw human-input axis values
//
// # Optional Interfaces
//
// These can be nil - the core degrades gracefully:
//
//   - HeadingSensorFactory: Gyroscope. Without it, heading queries report ErrHardwareUnavailable.
//   - TaskJournal: Task run history. Without it, runs are not recorded.
//   - FaultSink: Hook fault reporting. Without it, faults are only logged.
//   - ClawActuator: Only needed when a claw subsystem is fitted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

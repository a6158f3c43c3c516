// Package domain defines the core entities for the robot control core.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Resource: An exclusively claimable actuator group
//   - TaskState: The lifecycle of a scheduled task
//   - TaskRun: A journal record of one task admission
//   - DriveIntent / WheelPowers: Drive control values
//   - RobotSettings: Tunable gains, deadzone, axis mapping and timing
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package domain

import "errors"

// Domain errors represent control logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrHardwareUnavailable indicates an optional sensor failed to initialise.
	// Features depending on it are disabled; the rest of the subsystem works.
	ErrHardwareUnavailable = errors.New("hardware unavailable")

	// Scheduler Errors.

	// ErrTaskTerminal indicates a finished or interrupted task was scheduled again.
	// A fresh instance must be created to run the behaviour again.
	ErrTaskTerminal = errors.New("task already terminated")

	// ErrReentrantTick indicates Tick was called while a tick was in progress.
	ErrReentrantTick = errors.New("scheduler tick already in progress")

	// ErrSchedulerRunning indicates the periodic loop is already started.
	ErrSchedulerRunning = errors.New("scheduler already running")

	// ErrHookFault indicates a task hook returned an error or panicked.
	ErrHookFault = errors.New("task hook fault")
)

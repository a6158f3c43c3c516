package domain

import (
	"fmt"
	"sync"
	"time"
)

// Lifecycle tracks the state of one task instance. It is owned by the task
// and advanced only by the scheduler. Reads are safe from any goroutine.
type Lifecycle struct {
	mu        sync.Mutex
	state     TaskState
	ticks     int
	runID     string
	startedAt time.Time
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() TaskState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ticks returns how many times Execute has been called.
func (l *Lifecycle) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// RunID returns the identifier of the current or last admission.
func (l *Lifecycle) RunID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runID
}

// StartedAt returns when the task was admitted.
func (l *Lifecycle) StartedAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startedAt
}

// Admit moves a created task to initialized and records the run identity.
func (l *Lifecycle) Admit(runID string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.advance(TaskInitialized); err != nil {
		return err
	}
	l.runID = runID
	l.startedAt = at
	return nil
}

// Advance moves the task to a new state if the transition is allowed.
func (l *Lifecycle) Advance(to TaskState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advance(to)
}

func (l *Lifecycle) advance(to TaskState) error {
	if !CanTransition(l.state, to) {
		if l.state.IsTerminal() {
			return fmt.Errorf("%w: %s -> %s", ErrTaskTerminal, l.state, to)
		}
		return fmt.Errorf("%w: disallowed transition %s -> %s", ErrInvalidInput, l.state, to)
	}
	l.state = to
	return nil
}

// CountTick records one Execute call.
func (l *Lifecycle) CountTick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ticks++
}

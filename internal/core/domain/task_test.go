package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskState_String(t *testing.T) {
	tests := []struct {
		state TaskState
		want  string
	}{
		{TaskCreated, "created"},
		{TaskInitialized, "initialized"},
		{TaskRunning, "running"},
		{TaskFinished, "finished"},
		{TaskInterrupted, "interrupted"},
		{TaskState(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestTaskState_IsTerminal(t *testing.T) {
	assert.False(t, TaskCreated.IsTerminal())
	assert.False(t, TaskInitialized.IsTerminal())
	assert.False(t, TaskRunning.IsTerminal())
	assert.True(t, TaskFinished.IsTerminal())
	assert.True(t, TaskInterrupted.IsTerminal())
}

func TestTaskState_IsActive(t *testing.T) {
	assert.False(t, TaskCreated.IsActive())
	assert.True(t, TaskInitialized.IsActive())
	assert.True(t, TaskRunning.IsActive())
	assert.False(t, TaskFinished.IsActive())
	assert.False(t, TaskInterrupted.IsActive())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to TaskState
		want     bool
	}{
		{TaskCreated, TaskInitialized, true},
		{TaskCreated, TaskInterrupted, true},
		{TaskCreated, TaskRunning, false},
		{TaskCreated, TaskFinished, false},
		{TaskInitialized, TaskRunning, true},
		{TaskInitialized, TaskFinished, true},
		{TaskInitialized, TaskInterrupted, true},
		{TaskRunning, TaskFinished, true},
		{TaskRunning, TaskInterrupted, true},
		{TaskRunning, TaskInitialized, false},
		{TaskFinished, TaskRunning, false},
		{TaskFinished, TaskInterrupted, false},
		{TaskInterrupted, TaskRunning, false},
		{TaskInterrupted, TaskFinished, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTaskOutcome_IsValid(t *testing.T) {
	assert.True(t, OutcomeFinished.IsValid())
	assert.True(t, OutcomeInterrupted.IsValid())
	assert.True(t, OutcomeFaulted.IsValid())
	assert.False(t, TaskOutcome("exploded").IsValid())
	assert.Equal(t, "faulted", OutcomeFaulted.String())
}

func TestTaskRun_Duration(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := TaskRun{StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, run.Duration())

	assert.Equal(t, time.Duration(0), TaskRun{StartedAt: start}.Duration())
	assert.Equal(t, time.Duration(0), TaskRun{}.Duration())
}

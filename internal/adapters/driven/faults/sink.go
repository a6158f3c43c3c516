// Package faults provides the process-level handler for task hook faults.
package faults

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/team151/robotcore/internal/core/domain"
	"github.com/team151/robotcore/internal/core/ports/driven"
	"github.com/team151/robotcore/internal/logger"
)

// Ensure Sink implements the interface.
var _ driven.FaultSink = (*Sink)(nil)

// RateLimitConfig bounds how often faults from one task are logged.
type RateLimitConfig struct {
	// ReportsPerSecond is the sustained logging rate per task name.
	ReportsPerSecond float64
	// BurstSize is the number of faults logged before throttling starts.
	BurstSize int
}

// DefaultRateLimit logs a default task that faults every tick about once
// per second instead of fifty times.
var DefaultRateLimit = RateLimitConfig{ReportsPerSecond: 1, BurstSize: 3}

// DefaultHistory is how many recent faults the sink keeps.
const DefaultHistory = 32

// Sink logs hook faults, throttled per task name, and keeps a short history.
// Report never blocks the scheduler.
type Sink struct {
	mu         sync.Mutex
	cfg        RateLimitConfig
	limiters   map[string]*rate.Limiter
	suppressed map[string]int
	recent     []domain.HookFault
	total      int
}

// NewSink creates a fault sink with the default rate limit.
func NewSink() *Sink {
	return NewSinkWithConfig(DefaultRateLimit)
}

// NewSinkWithConfig creates a fault sink with a custom rate limit.
func NewSinkWithConfig(cfg RateLimitConfig) *Sink {
	return &Sink{
		cfg:        cfg,
		limiters:   make(map[string]*rate.Limiter),
		suppressed: make(map[string]int),
	}
}

// Report records a fault and logs it unless the task is over its rate.
func (s *Sink) Report(fault *domain.HookFault) {
	if fault == nil {
		return
	}

	s.mu.Lock()
	s.total++
	s.recent = append(s.recent, *fault)
	if len(s.recent) > DefaultHistory {
		s.recent = s.recent[len(s.recent)-DefaultHistory:]
	}

	limiter, ok := s.limiters[fault.TaskName]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.ReportsPerSecond), s.cfg.BurstSize)
		s.limiters[fault.TaskName] = limiter
	}
	if !limiter.AllowN(fault.At, 1) {
		s.suppressed[fault.TaskName]++
		s.mu.Unlock()
		return
	}
	suppressed := s.suppressed[fault.TaskName]
	delete(s.suppressed, fault.TaskName)
	s.mu.Unlock()

	if suppressed > 0 {
		logger.Error("task fault: %v (%d similar suppressed)", fault, suppressed)
		return
	}
	logger.Error("task fault: %v", fault)
}

// Total returns how many faults have been reported.
func (s *Sink) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Recent returns the most recent faults, oldest first.
func (s *Sink) Recent() []domain.HookFault {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HookFault(nil), s.recent...)
}

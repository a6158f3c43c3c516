package driven

import "github.com/team151/robotcore/internal/core/domain"

// FaultSink is the process-level handler for task hook faults.
// Report must not block; it is called from the scheduler tick.
type FaultSink interface {
	Report(fault *domain.HookFault)
}

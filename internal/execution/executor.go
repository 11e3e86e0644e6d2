package execution

import (
	"context"

	"gsplit/internal/domain"
)

// EventSink receives live test events. Workers run concurrently, so a sink
// may be called from several goroutines at once.
type EventSink func(domain.TestEvent)

// Backend executes one dispatch spec and returns what it observed.
// Cancelling ctx must stop the underlying build.
type Backend interface {
	Execute(ctx context.Context, spec domain.DispatchSpec, sink EventSink) domain.WorkerOutcome
}

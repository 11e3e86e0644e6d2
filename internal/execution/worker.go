package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gsplit/internal/domain"
)

// WorkerPool runs dispatch specs concurrently on a backend
type WorkerPool struct {
	backend Backend
	timeout time.Duration
}

// NewWorkerPool creates a new WorkerPool.
// A zero timeout lets workers run until their build ends.
func NewWorkerPool(backend Backend, timeout time.Duration) *WorkerPool {
	return &WorkerPool{backend: backend, timeout: timeout}
}

// Execute starts one worker per spec and waits for all of them.
// Outcomes are returned in spec order.
func (wp *WorkerPool) Execute(ctx context.Context, specs []domain.DispatchSpec, sink EventSink) []domain.WorkerOutcome {
	outcomes := make([]domain.WorkerOutcome, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec domain.DispatchSpec) {
			defer wg.Done()
			outcomes[i] = wp.Run(ctx, spec, wp.timeout, sink)
		}(i, spec)
	}
	wg.Wait()
	return outcomes
}

// Run executes a single spec with its own deadline.
//
// When the deadline passes or ctx is cancelled, the build is cancelled and a
// failed outcome without records is returned immediately, without waiting
// for the backend to wind down.
func (wp *WorkerPool) Run(ctx context.Context, spec domain.DispatchSpec, timeout time.Duration, sink EventSink) domain.WorkerOutcome {
	var workerCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		workerCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		workerCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	done := make(chan domain.WorkerOutcome, 1)
	go func() {
		done <- wp.backend.Execute(workerCtx, spec, sink)
	}()

	select {
	case out := <-done:
		if workerCtx.Err() != nil {
			return abandoned(spec, workerCtx.Err(), timeout, start)
		}
		out.WorkerID = spec.WorkerID
		out.LogPath = spec.LogPath
		if out.Duration == 0 {
			out.Duration = time.Since(start)
		}
		return out
	case <-workerCtx.Done():
		return abandoned(spec, workerCtx.Err(), timeout, start)
	}
}

// abandoned is the outcome of a worker cut off by its deadline or by
// cancellation. Records it may have collected are discarded.
func abandoned(spec domain.DispatchSpec, cause error, timeout time.Duration, start time.Time) domain.WorkerOutcome {
	if errors.Is(cause, context.DeadlineExceeded) {
		cause = fmt.Errorf("%w after %s", domain.ErrWorkerTimeout, timeout)
	}
	return domain.WorkerOutcome{
		WorkerID:  spec.WorkerID,
		Succeeded: false,
		Cause:     cause,
		Duration:  time.Since(start),
		LogPath:   spec.LogPath,
	}
}

package domain

import "errors"

// ErrInvalidArgument is returned when a caller passes an unusable value,
// such as a worker count below one.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInfrastructure marks a worker whose build could not start or complete.
var ErrInfrastructure = errors.New("build infrastructure failure")

// ErrWorkerTimeout is the cause recorded for a worker that exceeded its deadline.
var ErrWorkerTimeout = errors.New("worker timed out")

// ErrHistoryLoad is returned by history stores that cannot read persisted history.
// Callers are expected to continue with an empty history.
var ErrHistoryLoad = errors.New("failed to load test history")

// ErrRunFailed is returned by the run command when any worker failed.
var ErrRunFailed = errors.New("test run failed")

// Package batching splits known tests into balanced batches, one per worker.
package batching

import "gsplit/internal/domain"

// Strategy distributes tests across workers
type Strategy interface {
	// CreateBatches returns at most workers batches built from the tests in history.
	// An empty history yields no batches.
	CreateBatches(history domain.History, workers int) ([]domain.Batch, error)
}

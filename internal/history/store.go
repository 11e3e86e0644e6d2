// Package history persists per-test run history between runs.
package history

import (
	"context"

	"gsplit/internal/domain"
)

// Store loads and replaces the whole test history.
type Store interface {
	// LoadAll returns every stored test and its runs. Errors wrap domain.ErrHistoryLoad.
	LoadAll(ctx context.Context) (domain.History, error)
	// ReplaceAll durably replaces the stored history with h.
	ReplaceAll(ctx context.Context, h domain.History) error
}

package batching

import (
	"fmt"
	"sort"

	"gsplit/internal/domain"
)

// GreedyClassStrategy keeps whole classes together and spreads them over
// workers by estimated duration, largest first, always into the least
// loaded batch.
type GreedyClassStrategy struct{}

// NewGreedyClassStrategy creates a new GreedyClassStrategy
func NewGreedyClassStrategy() *GreedyClassStrategy {
	return &GreedyClassStrategy{}
}

type groupKey struct {
	modulePath string
	className  string
}

type group struct {
	key      groupKey
	tests    []domain.TestIdentity
	estimate int64
}

// CreateBatches groups tests by module path and class name, estimates each
// group from the PASSED runs of its tests and packs the groups into
// min(workers, number of tests) batches.
//
// A test without any PASSED run is estimated with the average duration of
// all PASSED runs in the history, or 0 when there are none at all.
func (s *GreedyClassStrategy) CreateBatches(history domain.History, workers int) ([]domain.Batch, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: number of workers must be at least 1, got %d", domain.ErrInvalidArgument, workers)
	}
	if len(history) == 0 {
		return []domain.Batch{}, nil
	}

	ids := history.Identities()
	bucketCount := workers
	if len(ids) < bucketCount {
		bucketCount = len(ids)
	}

	estimates := Estimate(history)

	groups := make([]*group, 0)
	index := make(map[groupKey]*group)
	for _, id := range ids {
		key := groupKey{modulePath: id.ModulePath, className: id.ClassName}
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.tests = append(g.tests, id)
		g.estimate += estimates[id]
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].estimate > groups[j].estimate
	})

	tests := make([][]domain.TestIdentity, bucketCount)
	totals := make([]int64, bucketCount)
	for _, g := range groups {
		target := 0
		for i := 1; i < bucketCount; i++ {
			if totals[i] < totals[target] {
				target = i
			}
		}
		tests[target] = append(tests[target], g.tests...)
		totals[target] += g.estimate
	}

	batches := make([]domain.Batch, bucketCount)
	for i := range batches {
		batches[i] = domain.Batch{
			Tests:                   tests[i],
			EstimatedDurationMillis: totals[i],
		}
	}
	return batches, nil
}

// averagePassed returns the mean duration of the PASSED runs.
func averagePassed(runs []domain.TestRunRecord) (int64, bool) {
	var sum, n int64
	for _, r := range runs {
		if r.Outcome == domain.OutcomePassed {
			sum += r.DurationMillis
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / n, true
}

func globalAverage(history domain.History) int64 {
	var sum, n int64
	for _, runs := range history {
		for _, r := range runs {
			if r.Outcome == domain.OutcomePassed {
				sum += r.DurationMillis
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// Estimate returns the duration estimate CreateBatches uses for each test in history.
func Estimate(history domain.History) map[domain.TestIdentity]int64 {
	fallback := globalAverage(history)
	estimates := make(map[domain.TestIdentity]int64, len(history))
	for id, runs := range history {
		if est, ok := averagePassed(runs); ok {
			estimates[id] = est
		} else {
			estimates[id] = fallback
		}
	}
	return estimates
}

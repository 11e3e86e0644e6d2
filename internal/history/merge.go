package history

import "gsplit/internal/domain"

// DefaultRetention is the number of non-skipped runs kept per test.
const DefaultRetention = 5

// Merge combines existing history with the records of a new run.
//
// For every test, skipped runs are dropped, the new runs are appended after
// the old ones and only the last limit runs are kept. Tests left without any
// run are omitted. old is not modified.
func Merge(old domain.History, records []domain.TestRunRecord, limit int) domain.History {
	if limit < 1 {
		limit = DefaultRetention
	}

	newByID := make(map[domain.TestIdentity][]domain.TestRunRecord)
	for _, r := range records {
		newByID[r.Identity] = append(newByID[r.Identity], r)
	}

	merged := make(domain.History, len(old)+len(newByID))
	keep := func(id domain.TestIdentity) {
		if _, done := merged[id]; done {
			return
		}
		var runs []domain.TestRunRecord
		for _, r := range old[id] {
			if r.Outcome != domain.OutcomeSkipped {
				runs = append(runs, r)
			}
		}
		for _, r := range newByID[id] {
			if r.Outcome != domain.OutcomeSkipped {
				runs = append(runs, r)
			}
		}
		if len(runs) == 0 {
			return
		}
		if len(runs) > limit {
			runs = runs[len(runs)-limit:]
		}
		merged[id] = runs
	}

	for id := range old {
		keep(id)
	}
	for id := range newByID {
		keep(id)
	}
	return merged
}

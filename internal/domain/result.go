package domain

import "time"

// WorkerOutcome is the result of one backend invocation
type WorkerOutcome struct {
	WorkerID  int
	Records   []TestRunRecord // Records collected by this worker only
	Succeeded bool            // Whether the build finished successfully
	Cause     error           // Why the build failed, if it did
	Fallback  bool            // Set for the unbatched recovery worker
	Duration  time.Duration
	LogPath   string
}

// IsInfraFailure reports whether the worker failed before producing any test outcome.
func (w WorkerOutcome) IsInfraFailure() bool {
	return !w.Succeeded && len(w.Records) == 0
}

// RunOutcome is the outcome of every worker of a run, in submission order,
// followed by the fallback worker if one was needed.
type RunOutcome struct {
	Workers []WorkerOutcome
}

// Success is true only if every worker succeeded
func (r RunOutcome) Success() bool {
	for _, w := range r.Workers {
		if !w.Succeeded {
			return false
		}
	}
	return true
}

// Records flattens the records of all workers in worker order
func (r RunOutcome) Records() []TestRunRecord {
	var all []TestRunRecord
	for _, w := range r.Workers {
		all = append(all, w.Records...)
	}
	return all
}

// InfraFailures returns the workers that failed without running tests
func (r RunOutcome) InfraFailures() []WorkerOutcome {
	var failed []WorkerOutcome
	for _, w := range r.Workers {
		if w.IsInfraFailure() {
			failed = append(failed, w)
		}
	}
	return failed
}

// FallbackUsed reports whether a recovery worker was run
func (r RunOutcome) FallbackUsed() bool {
	for _, w := range r.Workers {
		if w.Fallback {
			return true
		}
	}
	return false
}

// OutcomeCounts tallies test records by outcome
type OutcomeCounts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Counts tallies all records of the run
func (r RunOutcome) Counts() OutcomeCounts {
	var c OutcomeCounts
	for _, rec := range r.Records() {
		c.Total++
		switch rec.Outcome {
		case OutcomePassed:
			c.Passed++
		case OutcomeFailed:
			c.Failed++
		case OutcomeSkipped:
			c.Skipped++
		}
	}
	return c
}

// RunReportMeta contains metadata about a finished run
type RunReportMeta struct {
	RunID           string  `json:"run_id"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	SkippedTests    int     `json:"skipped_tests"`
	Workers         int     `json:"workers"`
	InfraFailures   int     `json:"infra_failures"`
	FallbackUsed    bool    `json:"fallback_used"`
	Success         bool    `json:"success"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// WorkerReport summarises a single worker for the report file
type WorkerReport struct {
	WorkerID  int    `json:"worker_id"`
	Tests     int    `json:"tests"`
	Succeeded bool   `json:"succeeded"`
	Fallback  bool   `json:"fallback,omitempty"`
	Cause     string `json:"cause,omitempty"`
	LogPath   string `json:"log_path,omitempty"`
}

// RunReport is the persisted summary of the last run
type RunReport struct {
	Meta    RunReportMeta  `json:"meta"`
	Workers []WorkerReport `json:"workers"`
	Details []TestFailure  `json:"details"`
}

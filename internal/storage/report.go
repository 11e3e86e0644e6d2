package storage

import (
	"fmt"
	"sort"
	"time"

	"gsplit/internal/domain"
)

// BuildReport summarises a run: counts, one entry per worker, and one detail
// per failed test or per worker that failed without running tests.
func BuildReport(runID string, outcome domain.RunOutcome, duration time.Duration, workers int, now time.Time) domain.RunReport {
	counts := outcome.Counts()
	report := domain.RunReport{
		Meta: domain.RunReportMeta{
			RunID:           runID,
			TotalTests:      counts.Total,
			PassedTests:     counts.Passed,
			FailedTests:     counts.Failed,
			SkippedTests:    counts.Skipped,
			Workers:         workers,
			InfraFailures:   len(outcome.InfraFailures()),
			FallbackUsed:    outcome.FallbackUsed(),
			Success:         outcome.Success(),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       now.Format(time.RFC3339),
		},
		Workers: []domain.WorkerReport{},
		Details: []domain.TestFailure{},
	}

	for _, w := range outcome.Workers {
		wr := domain.WorkerReport{
			WorkerID:  w.WorkerID,
			Tests:     len(w.Records),
			Succeeded: w.Succeeded,
			Fallback:  w.Fallback,
			LogPath:   w.LogPath,
		}
		if w.Cause != nil {
			wr.Cause = w.Cause.Error()
		}
		report.Workers = append(report.Workers, wr)

		if w.IsInfraFailure() {
			report.Details = append(report.Details, domain.TestFailure{
				TestName: infraTestName(w),
				WorkerID: w.WorkerID,
				Message:  wr.Cause,
				LogPath:  w.LogPath,
				Infra:    true,
			})
			continue
		}

		var failed []domain.TestFailure
		for _, r := range w.Records {
			if r.Outcome != domain.OutcomeFailed {
				continue
			}
			failed = append(failed, domain.TestFailure{
				ModulePath: r.Identity.ModulePath,
				ClassName:  r.Identity.ClassName,
				TestName:   r.Identity.TestName,
				Parameters: r.Identity.Parameters,
				WorkerID:   w.WorkerID,
				BuildID:    r.BuildID,
				DurationMs: r.DurationMillis,
				LogPath:    w.LogPath,
			})
		}
		sort.SliceStable(failed, func(i, j int) bool {
			if failed[i].ClassName != failed[j].ClassName {
				return failed[i].ClassName < failed[j].ClassName
			}
			return failed[i].TestName < failed[j].TestName
		})
		report.Details = append(report.Details, failed...)
	}
	return report
}

func infraTestName(w domain.WorkerOutcome) string {
	if w.Fallback {
		return "fallback worker"
	}
	return fmt.Sprintf("worker %d", w.WorkerID)
}

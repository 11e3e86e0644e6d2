package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"gsplit/internal/batching"
	"gsplit/internal/domain"
	"gsplit/internal/history"
)

// DefaultTestTask is dispatched when a run names no tasks
const DefaultTestTask = "test"

// RunConfig holds the per-run settings of the orchestrator
type RunConfig struct {
	ProjectPath string
	HomePath    string
	Tasks       []string // Empty means DefaultTestTask
	Workers     int
	Timeout     time.Duration // Zero disables the per-worker timeout
	Args        []string
}

// Plan is everything decided before any worker starts
type Plan struct {
	RunID   string
	RunDir  string
	History domain.History
	Batches []domain.Batch
	Specs   []domain.DispatchSpec
	Request RequestContext
}

// Orchestrator drives a distributed test run: it loads history, batches the
// known tests, runs the workers, recovers from infrastructure failures and
// writes the merged history back.
type Orchestrator struct {
	store     history.Store
	strategy  batching.Strategy
	backend   Backend
	logger    zerolog.Logger
	retention int
	now       func() time.Time
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(store history.Store, strategy batching.Strategy, backend Backend, logger zerolog.Logger, retention int) *Orchestrator {
	return &Orchestrator{
		store:     store,
		strategy:  strategy,
		backend:   backend,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
}

// Plan loads history and computes the batches and dispatch specs of a run
// without touching the file system.
func (o *Orchestrator) Plan(ctx context.Context, cfg RunConfig) (*Plan, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: number of workers must be at least 1, got %d", domain.ErrInvalidArgument, cfg.Workers)
	}

	hist, err := o.store.LoadAll(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Msg("continuing with empty test history")
		hist = domain.History{}
	}

	batches, err := o.strategy.CreateBatches(hist, cfg.Workers)
	if err != nil {
		return nil, err
	}

	tasks := cfg.Tasks
	if len(tasks) == 0 {
		tasks = []string{DefaultTestTask}
	}

	runID := fmt.Sprintf("run-%d", o.now().UnixMilli())
	runDir := filepath.Join(cfg.HomePath, "runs", runID)
	rc := RequestContext{
		ProjectPath: cfg.ProjectPath,
		Tasks:       tasks,
		LogDir:      filepath.Join(runDir, "logs"),
		FilterDir:   filepath.Join(runDir, "filters"),
		ScratchDir:  filepath.Join(runDir, "scripts"),
		Args:        cfg.Args,
	}

	return &Plan{
		RunID:   runID,
		RunDir:  runDir,
		History: hist,
		Batches: batches,
		Specs:   BuildSpecs(batches, rc),
		Request: rc,
	}, nil
}

// Run executes a full distributed run and reports every worker outcome.
//
// Test failures are not errors: inspect RunOutcome.Success. An error is
// returned for invalid input or when the merged history cannot be written;
// in the latter case the outcome is still valid.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig, sink EventSink) (*Plan, domain.RunOutcome, error) {
	o.logger.Debug().Str("state", "PREPARING").Int("workers", cfg.Workers).Strs("tasks", cfg.Tasks).Msg("preparing run")
	plan, err := o.Plan(ctx, cfg)
	if err != nil {
		return nil, domain.RunOutcome{}, err
	}
	o.logger.Debug().
		Str("run", plan.RunID).
		Int("known_tests", len(plan.History)).
		Int("batches", len(plan.Batches)).
		Msg("history loaded")

	for _, dir := range []string{plan.Request.LogDir, plan.Request.FilterDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return plan, domain.RunOutcome{}, fmt.Errorf("create run directory: %w", err)
		}
	}

	pool := NewWorkerPool(o.backend, cfg.Timeout)

	o.logger.Debug().Str("state", "DISPATCHING").Int("specs", len(plan.Specs)).Msg("starting workers")
	outcomes := pool.Execute(ctx, plan.Specs, sink)

	if failed := infraFailures(outcomes); len(failed) > 0 {
		if ctx.Err() != nil {
			o.logger.Warn().Err(ctx.Err()).Msg("run cancelled, skipping fallback worker")
		} else {
			for _, w := range failed {
				if IsTimeout(w) {
					o.logger.Warn().Int("worker", w.WorkerID).Dur("timeout", cfg.Timeout).Msg("worker timed out")
					continue
				}
				o.logger.Warn().Int("worker", w.WorkerID).Err(w.Cause).Msg("worker failed before running any test")
			}
			fallback := FallbackSpec(plan.Specs, plan.Request)
			o.logger.Info().Str("state", "FALLBACK").Strs("tasks", fallback.Tasks).Msg("running all tests in a single fallback worker")
			out := pool.Run(ctx, fallback, 0, sink)
			out.Fallback = true
			outcomes = append(outcomes, out)
		}
	}

	outcome := domain.RunOutcome{Workers: outcomes}

	o.logger.Debug().Str("state", "MERGING").Int("records", len(outcome.Records())).Msg("updating test history")
	merged := history.Merge(plan.History, outcome.Records(), o.retention)
	if err := o.store.ReplaceAll(context.WithoutCancel(ctx), merged); err != nil {
		return plan, outcome, fmt.Errorf("save test history: %w", err)
	}

	o.logger.Debug().Str("state", "DONE").Bool("success", outcome.Success()).Msg("run finished")
	return plan, outcome, nil
}

func infraFailures(outcomes []domain.WorkerOutcome) []domain.WorkerOutcome {
	var failed []domain.WorkerOutcome
	for _, w := range outcomes {
		if w.IsInfraFailure() {
			failed = append(failed, w)
		}
	}
	return failed
}

// IsTimeout reports whether a worker outcome was cut off by its deadline
func IsTimeout(w domain.WorkerOutcome) bool {
	return errors.Is(w.Cause, domain.ErrWorkerTimeout)
}

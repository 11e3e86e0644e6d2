package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gsplit/internal/batching"
	"gsplit/internal/config"
	"gsplit/internal/discovery"
	"gsplit/internal/domain"
	"gsplit/internal/execution"
	"gsplit/internal/storage"
	"gsplit/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	logger    zerolog.Logger
	strategy  batching.Strategy
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	logger zerolog.Logger,
	strategy batching.Strategy,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		logger:    logger,
		strategy:  strategy,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openHistoryStore(ctx, rc.config)
	if err != nil {
		return err
	}
	defer closeStore()

	backend := execution.NewGradleBackend(rc.config, rc.logger)
	orchestrator := execution.NewOrchestrator(store, rc.strategy, backend, rc.logger, rc.config.GetRetention())

	// Live output: one line per test with --tests or verbose, a progress bar otherwise
	var reporter *ui.Reporter
	if rc.config.Flags.PrintTests || rc.config.Flags.Verbose {
		reporter = ui.NewReporter(os.Stdout, nil)
	} else {
		reporter = ui.NewReporter(os.Stdout, ui.NewProgressBar(rc.expectedTests()))
	}

	color.Cyan("Running %v with %d worker(s)\n", rc.config.GetTasks(), rc.config.Workers)

	start := time.Now()
	plan, outcome, runErr := orchestrator.Run(ctx, runConfig(rc.config), reporter.Handle)
	reporter.Finish()
	if plan == nil || len(outcome.Workers) == 0 {
		return runErr
	}
	if runErr != nil {
		rc.logger.Error().Err(runErr).Msg("test history was not updated")
	}

	if err := rc.storage.Save(plan.RunID, outcome, time.Since(start), len(plan.Specs)); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	if err := rc.formatter.PrintMetaStats(); err != nil {
		return err
	}

	if outcome.Success() {
		return runErr
	}

	if rc.config.Flags.OpenFaills {
		report, err := rc.storage.Load()
		if err != nil {
			return err
		}
		if err := rc.viewer.View(report); err != nil {
			return err
		}
	}
	return domain.ErrRunFailed
}

// expectedTests estimates the number of tests for the progress bar from the
// test sources. Zero means unknown.
func (rc *RunCommand) expectedTests() int {
	scanner := discovery.NewScanner(rc.config.PathsToIgnore)
	tests, err := scanner.Scan(rc.config.GetProjectPath())
	if err != nil {
		rc.logger.Debug().Err(err).Msg("could not scan test sources")
		return 0
	}
	count, err := rc.formatter.CountTestCases(tests)
	if err != nil {
		rc.logger.Debug().Err(err).Msg("could not count test cases")
		return 0
	}
	return count
}

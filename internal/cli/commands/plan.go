package commands

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gsplit/internal/batching"
	"gsplit/internal/config"
	"gsplit/internal/discovery"
	"gsplit/internal/execution"
	"gsplit/internal/ui"
)

// PlanCommand handles the plan command
type PlanCommand struct {
	config    *config.Config
	logger    zerolog.Logger
	strategy  batching.Strategy
	parser    *discovery.Parser
	formatter *ui.Formatter
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(
	cfg *config.Config,
	logger zerolog.Logger,
	strategy batching.Strategy,
	parser *discovery.Parser,
	formatter *ui.Formatter,
) *PlanCommand {
	return &PlanCommand{
		config:    cfg,
		logger:    logger,
		strategy:  strategy,
		parser:    parser,
		formatter: formatter,
	}
}

// Execute runs the command
func (pc *PlanCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openHistoryStore(ctx, pc.config)
	if err != nil {
		return err
	}
	defer closeStore()

	orchestrator := execution.NewOrchestrator(store, pc.strategy, nil, pc.logger, pc.config.GetRetention())
	plan, err := orchestrator.Plan(ctx, runConfig(pc.config))
	if err != nil {
		return err
	}

	known := make(map[string]bool)
	for id := range plan.History {
		known[id.ClassName] = true
	}

	pc.formatter.PrintPlan(plan.Batches, plan.Specs, pc.unknownClasses(known))
	return nil
}

// unknownClasses returns the test classes found in the sources that have no
// recorded runs
func (pc *PlanCommand) unknownClasses(known map[string]bool) []string {
	scanner := discovery.NewScanner(pc.config.PathsToIgnore)
	tests, err := scanner.Scan(pc.config.GetProjectPath())
	if err != nil {
		pc.logger.Debug().Err(err).Msg("could not scan test sources")
		return nil
	}

	var unknown []string
	for _, test := range tests {
		class, err := pc.parser.ClassName(test)
		if err != nil {
			pc.logger.Debug().Err(err).Str("file", test).Msg("could not read test class")
			continue
		}
		if !known[class] {
			unknown = append(unknown, class)
		}
	}
	sort.Strings(unknown)
	return unknown
}

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gsplit/internal/batching"
	"gsplit/internal/cli"
	"gsplit/internal/config"
	"gsplit/internal/discovery"
	"gsplit/internal/execution"
	"gsplit/internal/history"
	"gsplit/internal/storage"
	"gsplit/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	Plan    *PlanCommand
	History *HistoryCommand
	List    *ListCommand
	Faills  *FaillsCommand
}

// NewCommands creates all commands with dependencies.
// cfg is filled in from files, environment and flags before any command runs.
func NewCommands(cfg *config.Config, logger zerolog.Logger) *Commands {
	filter := discovery.NewFilter()
	testCaseParser := discovery.NewParser()
	strategy := batching.NewGreedyClassStrategy()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, testCaseParser)
	errorViewer := ui.NewErrorViewer(cfg, jsonStorage)

	return &Commands{
		Run:     NewRunCommand(cfg, logger, strategy, jsonStorage, formatter, errorViewer),
		Plan:    NewPlanCommand(cfg, logger, strategy, testCaseParser, formatter),
		History: NewHistoryCommand(cfg, logger, formatter),
		List:    NewListCommand(cfg, filter, formatter, jsonStorage),
		Faills:  NewFaillsCommand(cfg, jsonStorage, errorViewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Load settings once flags are parsed
	loadConfig := func(cmd *cobra.Command, args []string) error {
		cli.SetVerbose(flags.Verbose)
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		return cfg.Validate()
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "p", "", "Path to the Gradle project (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&flags.HomePath, "home", "H", "", "Directory for history, logs and reports (default: <project>/.gradle/gsplit)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose (debug) logging")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run Gradle tests split across parallel workers",
		Long:    "Split the known tests of a Gradle project into balanced batches using past run durations and execute each batch in its own Gradle build",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	addExecutionFlags(runCmd, flags)
	runCmd.Flags().DurationVarP(&flags.Timeout, "timeout", "t", 0, "Per-worker timeout, e.g. 15m (default: none)")
	runCmd.Flags().BoolVar(&flags.PrintTests, "tests", false, "Print a line per finished test instead of a progress bar")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// Plan command
	planCmd := &cobra.Command{
		Use:     "plan",
		Short:   "Show how tests would be split",
		Long:    "Compute the batches of the next run from the stored history without running any build",
		RunE:    c.Plan.Execute,
		PreRunE: loadConfig,
	}
	addExecutionFlags(planCmd, flags)
	rootCmd.AddCommand(planCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show stored test durations",
		Long:    "Display the recorded runs and the duration estimate of every known test",
		RunE:    c.History.Execute,
		PreRunE: loadConfig,
	}
	historyCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by class name pattern (supports wildcards, e.g., '*UserTest' or 'com.acme.*')")
	rootCmd.AddCommand(historyCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered tests",
		Long:    "Scan the project sources and list all test classes without executing them. Classes without recorded runs are marked as new",
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by class name pattern (supports wildcards, e.g., '*UserTest' or 'com.acme.*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases of every class")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:     "faills",
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run in an interactive viewer",
		RunE:    c.Faills.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(faillsCmd)
}

func addExecutionFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Number of parallel Gradle builds (default: number of CPUs)")
	cmd.Flags().StringSliceVarP(&flags.Tasks, "tasks", "T", nil, "Gradle test tasks to run (default: test)")
	cmd.Flags().BoolVar(&flags.DisableFoolproofness, "disable-foolproofness", false, "Allow more workers than the per-CPU limit")
}

// openHistoryStore returns the configured history store and a function
// releasing it.
func openHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, func() error, error) {
	if cfg.HistoryDSN == "" {
		return history.NewJSONStore(cfg.GetHistoryPath()), func() error { return nil }, nil
	}
	store, err := history.OpenSQLStore(ctx, cfg.HistoryDSN)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func runConfig(cfg *config.Config) execution.RunConfig {
	return execution.RunConfig{
		ProjectPath: cfg.GetProjectPath(),
		HomePath:    cfg.GetHomePath(),
		Tasks:       cfg.GetTasks(),
		Workers:     cfg.Workers,
		Timeout:     cfg.Timeout,
		Args:        cfg.GradleArgs,
	}
}

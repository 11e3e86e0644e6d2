package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gsplit/internal/config"
	"gsplit/internal/discovery"
	"gsplit/internal/storage"
	"gsplit/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner(lc.config.PathsToIgnore)
	files, err := scanner.Scan(lc.config.GetProjectPath())
	if err != nil {
		return err
	}

	parser := discovery.NewParser()
	classes := make([]string, len(files))
	for i, file := range files {
		class, err := parser.ClassName(file)
		if err != nil {
			return err
		}
		classes[i] = class
	}

	// Filter tests
	keep := make(map[string]bool)
	for _, class := range lc.filter.FilterByName(classes, lc.config.Flags.NameFilter) {
		keep[class] = true
	}

	var tests []string
	for i, file := range files {
		if keep[classes[i]] {
			tests = append(tests, file)
		}
	}

	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	return lc.formatter.PrintTestList(tests, lc.config.Flags.TestCases, lc.failedClasses(), lc.knownClasses(cmd.Context()))
}

// knownClasses returns the classes with recorded runs, or nil when the
// history cannot be read
func (lc *ListCommand) knownClasses(ctx context.Context) map[string]struct{} {
	store, closeStore, err := openHistoryStore(ctx, lc.config)
	if err != nil {
		return nil
	}
	defer closeStore()

	history, err := store.LoadAll(ctx)
	if err != nil {
		return nil
	}
	known := make(map[string]struct{}, len(history))
	for id := range history {
		known[id.ClassName] = struct{}{}
	}
	return known
}

// failedClasses returns the classes with failures in the last run, if a
// report exists
func (lc *ListCommand) failedClasses() map[string]struct{} {
	report, err := lc.storage.Load()
	if err != nil {
		return nil
	}
	failed := make(map[string]struct{})
	for _, d := range report.Details {
		if !d.Infra && !d.Resolved {
			failed[d.ClassName] = struct{}{}
		}
	}
	return failed
}

package commands

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gsplit/internal/config"
	"gsplit/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	logger    zerolog.Logger
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, logger zerolog.Logger, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		config:    cfg,
		logger:    logger,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openHistoryStore(cmd.Context(), hc.config)
	if err != nil {
		return err
	}
	defer closeStore()

	history, err := store.LoadAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(history) == 0 {
		color.Yellow("No test history recorded yet")
		return nil
	}

	hc.formatter.PrintHistory(history, hc.config.Flags.NameFilter)
	return nil
}

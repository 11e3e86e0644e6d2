package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gsplit/internal/cli"
	"gsplit/internal/cli/commands"
	"gsplit/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "gsplit",
		Short:         "Parallel Gradle test distributor",
		Long:          `Split the tests of a Gradle project into balanced batches using the durations of previous runs, and run every batch in its own Gradle build in parallel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	logger := cli.NewLogger()

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, logger)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

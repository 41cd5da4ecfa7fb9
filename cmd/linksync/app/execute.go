package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/linksync/cmd/linksync/cmd/candidates"
	syncmd "github.com/agentstation/linksync/cmd/linksync/cmd/sync"
	"github.com/agentstation/linksync/internal/cmd/globals"
)

// Execute runs the linksync CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "linksync",
		Short:   "Catalog to knowledge-base link reconciliation",
		Version: a.version,
		Long: `linksync reconciles the knowledge-base identifiers recorded in the
ACMI collection catalog against the catalog identifiers recorded in Wikidata.

Links present in the catalog but missing from the knowledge base become
write-back candidates. A run deduplicates and caps them, then writes each
one as an idempotent claim upsert, throttled to one edit per interval.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	globals.AddFlags(rootCmd)
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.linksync.yaml)")

	// Customize version output to match version subcommand
	rootCmd.SetVersionTemplate("linksync {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit --config replaces what New loaded from the default locations
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(globals.Parse(cmd))

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(syncmd.NewCommand(a))
	rootCmd.AddCommand(candidates.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/notewell/curator/cmd/curator/cmd"
	"github.com/notewell/curator/internal/cmd/globals"
)

// Execute runs the curator CLI with the given arguments. This is the main
// entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "curator",
		Short:   "Reconcile Jira issues into task notes",
		Version: a.version,
		Long: `Curator keeps a notes server in sync with Jira: each open issue gets
exactly one task note whose content carries a detail block and a dated
annotation trail, and whose attributes always reflect the issue's latest
state. Re-running is safe; existing tasks are annotated, never duplicated.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	a.flags = globals.AddFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel,
		"log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "",
		"config file (default is $HOME/.curator.yaml)")

	rootCmd.SetVersionTemplate("curator {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand runs before any command, after flags are parsed, so the
// logger reflects the final verbosity.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	logger := NewLogger(a.config, a.flags)
	a.logger = &logger
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(cmd.NewPublishCommand(a))
	rootCmd.AddCommand(cmd.NewListCommand(a))
	rootCmd.AddCommand(cmd.NewVersionCommand(a))
}

// Ensure App satisfies the command dependency contract at compile time.
var _ cmd.AppContext = (*App)(nil)

// ExitOnError prints an error and exits with status 1. It is meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

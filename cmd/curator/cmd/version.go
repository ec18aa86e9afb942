package cmd

import (
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("curator %s\n", app.Version())
			if app.Flags().Verbose {
				cmd.Printf("  commit: %s\n", app.Commit())
				cmd.Printf("  built:  %s\n", app.Date())
			}
		},
	}
}

// Package globals provides the persistent flag set shared by all commands.
package globals

import "github.com/spf13/cobra"

// Flags holds the global flags common to every command.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
	DryRun  bool
}

// AddFlags registers the global flags on the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml, wide")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Minimal output")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&flags.DryRun, "dry-run", "n", false,
		"Decide create/update for synthetic tickets without writing to the notes server")

	return flags
}

// Parse extracts the global flags from anywhere in the command hierarchy.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	output, _ := root.PersistentFlags().GetString("output")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")
	dryRun, _ := root.PersistentFlags().GetBool("dry-run")

	return &Flags{
		Output:  output,
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
		DryRun:  dryRun,
	}, nil
}

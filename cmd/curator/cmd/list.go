package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notewell/curator/internal/cmd/output"
	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/ticket"
)

// NewListCommand creates the list command: fetch and render issues without
// touching the notes server.
func NewListCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List fetched Jira issues",
		Long: `List fetches the configured Jira queries and renders the issues, oldest
first, without reading or writing the notes server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			flags := app.Flags()

			tickets, err := fetchTickets(ctx, app)
			if err != nil {
				return err
			}
			ticket.Sort(tickets)

			format := output.DetectFormat(flags.Output)
			formatter := output.NewFormatter(format)

			switch format {
			case output.FormatTable, output.FormatWide:
				return formatter.Format(cmd.OutOrStdout(), output.TicketData(tickets, format == output.FormatWide))
			default:
				return formatter.Format(cmd.OutOrStdout(), tickets)
			}
		},
	}
}

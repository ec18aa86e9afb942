package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/notewell/curator/internal/cmd/globals"
	"github.com/notewell/curator/internal/cmd/output"
	"github.com/notewell/curator/internal/jira"
	"github.com/notewell/curator/internal/trilium"
	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/reconcile"
	"github.com/notewell/curator/pkg/ticket"
)

// NewPublishCommand creates the publish command: fetch issues and reconcile
// them into task notes.
func NewPublishCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Reconcile fetched Jira issues into task notes",
		Long: `Publish fetches the configured Jira queries and reconciles each issue
against the notes server: unseen issues get a new task note placed on
today's day note, known issues get a dated annotation appended, and in
both cases the jira* attributes are rewritten from the issue.

With --dry-run, three synthetic tickets are decided against the live
note tree but nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
			defer cancel()
			ctx = logging.WithLogger(ctx, app.Logger())
			flags := app.Flags()

			tickets, err := fetchTickets(ctx, app)
			if err != nil {
				return err
			}

			notes, err := app.Notes()
			if err != nil {
				return err
			}
			defer notes.Close()

			store, err := trilium.NewStore(ctx, notes)
			if err != nil {
				return err
			}

			reconciler := reconcile.New(store, reconcile.WithDryRun(flags.DryRun))
			report, runErr := reconcile.NewRunner(reconciler).Run(ctx, tickets)

			// A partial report is still worth showing when the run aborts.
			if err := renderReport(cmd.OutOrStdout(), flags, report); err != nil {
				return err
			}
			return runErr
		},
	}
}

// fetchTickets returns the run's ticket set: the synthetic fixtures under
// --dry-run, otherwise a live fetch of the configured queries.
func fetchTickets(ctx context.Context, app AppContext) ([]ticket.Ticket, error) {
	if app.Flags().DryRun {
		return jira.Fixtures(), nil
	}

	client, err := app.Jira()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Fetch(ctx, app.Queries())
}

// renderReport writes the run report in the selected format.
func renderReport(w io.Writer, flags *globals.Flags, report *reconcile.Report) error {
	format := output.DetectFormat(flags.Output)
	formatter := output.NewFormatter(format)

	switch format {
	case output.FormatTable, output.FormatWide:
		return formatter.Format(w, output.ReportData(report, format == output.FormatWide))
	default:
		return formatter.Format(w, report)
	}
}

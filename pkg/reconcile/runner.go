package reconcile

import (
	"context"

	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/ticket"
)

// Runner iterates an ordered ticket set through the reconciler, one ticket
// at a time, accumulating the run report.
type Runner struct {
	reconciler *Reconciler
}

// NewRunner creates a Runner around a reconciler.
func NewRunner(reconciler *Reconciler) *Runner {
	return &Runner{reconciler: reconciler}
}

// Run reconciles every ticket, oldest created first. On error the partial
// report is returned along with the error: a conflict or transient failure
// aborts the run, but mutations already flushed for earlier tickets stay
// committed. Re-running is safe; created tasks are found, not duplicated.
func (r *Runner) Run(ctx context.Context, tickets []ticket.Ticket) (*Report, error) {
	log := logging.Ctx(ctx)

	ordered := make([]ticket.Ticket, len(tickets))
	copy(ordered, tickets)
	ticket.Sort(ordered)

	report := &Report{DryRun: r.reconciler.DryRun()}
	for _, t := range ordered {
		outcome, err := r.reconciler.Reconcile(ctx, t)
		if err != nil {
			return report, err
		}
		report.Add(outcome)
	}

	log.Debug().
		Int("tickets", report.Len()).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Bool("dry_run", report.DryRun).
		Msg("Reconciliation run complete")
	return report, nil
}

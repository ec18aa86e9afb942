// Package reconcile drives the per-ticket decision mapping a Jira issue to a
// create, update, or conflict outcome against the notes store, and the run
// driver that iterates a fetched ticket set through that decision.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/errors"
	"github.com/notewell/curator/pkg/htmldoc"
	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/tasks"
	"github.com/notewell/curator/pkg/ticket"
)

// Store is the target store contract the reconciler depends on. Mutations
// may be staged; Flush commits them. internal/trilium provides the ETAPI
// implementation.
type Store interface {
	// FindTasks returns every task under the root that is tagged as a
	// managed task, is not marked done, and carries key as its jiraKey
	// attribute.
	FindTasks(ctx context.Context, key string) ([]*tasks.Task, error)

	// CreateTask creates a task under the root. Creation is committed
	// eagerly so the returned task has a stable id.
	CreateTask(ctx context.Context, spec tasks.Spec) (*tasks.Task, error)

	// SetContent stages replacement content for a task.
	SetContent(ctx context.Context, id, content string) error

	// SetAttribute stages a single-valued label attribute write.
	SetAttribute(ctx context.Context, id, name, value string) error

	// AttachToDay relates a task to the day's time-bucketed container with
	// a status prefix such as "TODO".
	AttachToDay(ctx context.Context, id string, day time.Time, status string) error

	// Flush commits staged mutations.
	Flush(ctx context.Context) error
}

// Defaults applied to created tasks.
const (
	defaultSource    = "Jira"
	defaultIcon      = "bx bx-bug"
	defaultLocation  = "work"
	defaultTag       = "jira"
	defaultDayStatus = "TODO"
)

// Reconciler decides create, update, or conflict for one ticket at a time.
// Tickets are processed strictly sequentially; the decision and the flush
// that follows must observe a consistent view of the store.
type Reconciler struct {
	store  Store
	source string
	dryRun bool
	now    func() utc.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDryRun makes the reconciler run the full decision logic while
// performing zero store mutations.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// WithSource sets the source system name used in annotation markers.
func WithSource(source string) Option {
	return func(r *Reconciler) { r.source = source }
}

// WithNow overrides the clock, for deterministic tests.
func WithNow(now func() utc.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// New creates a Reconciler over the given store.
func New(store Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  store,
		source: defaultSource,
		now:    utc.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether the reconciler skips store mutations.
func (r *Reconciler) DryRun() bool {
	return r.dryRun
}

// Reconcile maps one ticket to its outcome. More than one existing match is
// a hard conflict: the error aborts the run and nothing further is mutated.
// Whichever path is taken, the jira* attribute set is rewritten afterwards
// so task metadata always reflects the latest fetched state.
func (r *Reconciler) Reconcile(ctx context.Context, t ticket.Ticket) (Outcome, error) {
	log := logging.Ctx(ctx)

	match, err := Resolve(ctx, r.store, t.Key)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Ticket: t}
	var task *tasks.Task

	switch match.Kind {
	case NotFound:
		log.Debug().Str("key", t.Key).Msg("New Jira issue")
		outcome.Action = ActionCreate
		if r.dryRun {
			return outcome, nil
		}
		if task, err = r.create(ctx, t); err != nil {
			return Outcome{}, err
		}

	case Found:
		log.Debug().Str("key", t.Key).Msg("Updating task from Jira issue")
		outcome.Action = ActionUpdate
		if r.dryRun {
			return outcome, nil
		}
		task = match.Task()
		if err = r.update(ctx, task); err != nil {
			return Outcome{}, err
		}

	case Ambiguous:
		return Outcome{}, errors.NewAmbiguousMatchError(t.Key, len(match.Tasks))
	}

	// Shared step: refresh task metadata whether new or existing, then
	// persist. This is the single point enforcing attribute freshness.
	if err = r.refreshAttributes(ctx, task.ID, t); err != nil {
		return Outcome{}, err
	}
	if err = r.store.Flush(ctx); err != nil {
		return Outcome{}, errors.WrapResource("flush", "task", task.ID, err)
	}

	outcome.TaskID = task.ID
	return outcome, nil
}

// create builds a new task from the ticket, commits it immediately so a
// later failure cannot leave it unflushed, and places it on the day note.
func (r *Reconciler) create(ctx context.Context, t ticket.Ticket) (*tasks.Task, error) {
	now := r.now()

	spec := tasks.Spec{
		Title:   fmt.Sprintf("%s: %s", t.Key, t.Title),
		Content: renderDetail(t, now),
		Attributes: map[string]string{
			tasks.AttrIconClass: defaultIcon,
			tasks.AttrJiraKey:   t.Key,
			tasks.AttrLocation:  defaultLocation,
			tasks.AttrTodoDate:  t.Created.Time.Format(constants.LabelDateFormat),
		},
		Tags: []string{defaultTag},
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	task, err := r.store.CreateTask(ctx, spec)
	if err != nil {
		return nil, errors.WrapResource("create", "task", t.Key, err)
	}
	if err := r.store.Flush(ctx); err != nil {
		return nil, errors.WrapResource("flush", "task", task.ID, err)
	}

	if err := r.store.AttachToDay(ctx, task.ID, now.Time, defaultDayStatus); err != nil {
		return nil, errors.WrapResource("create", "branch", task.ID, err)
	}
	return task, nil
}

// update appends a dated sync marker to the task's annotation region,
// leaving every other content region untouched.
func (r *Reconciler) update(ctx context.Context, task *tasks.Task) error {
	doc, err := htmldoc.Parse(task.Content)
	if err != nil {
		return err
	}

	marker := fmt.Sprintf("%s Update from %s", r.now().Time.Format(constants.MarkerTimeFormat), r.source)
	doc.AppendMarker(constants.MarkerListClass, marker)

	content, err := doc.Serialize()
	if err != nil {
		return err
	}
	if err := r.store.SetContent(ctx, task.ID, content); err != nil {
		return errors.WrapResource("update", "note", task.ID, err)
	}
	task.Content = content
	return nil
}

// refreshAttributes rewrites the shared jira* attribute set from the ticket.
func (r *Reconciler) refreshAttributes(ctx context.Context, id string, t ticket.Ticket) error {
	attrs := []struct {
		name  string
		value string
	}{
		{tasks.AttrJiraAssignee, t.DisplayAssignee()},
		{tasks.AttrJiraLabels, t.JoinedLabels()},
		{tasks.AttrJiraPriority, t.Priority},
		{tasks.AttrJiraStatus, t.Status},
		{tasks.AttrJiraUpdated, t.Updated.Time.Format(constants.LabelDateFormat)},
	}
	for _, attr := range attrs {
		if err := r.store.SetAttribute(ctx, id, attr.name, attr.value); err != nil {
			return errors.WrapResource("update", "attribute", attr.name, err)
		}
	}
	return nil
}

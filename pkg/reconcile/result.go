package reconcile

import (
	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/ticket"
)

// Action is the terminal outcome of reconciling one ticket.
type Action string

const (
	// ActionCreate means a new task was (or, dry-run, would be) created.
	ActionCreate Action = "create"
	// ActionUpdate means an existing task was (or would be) updated.
	ActionUpdate Action = "update"
)

// Outcome records the decision taken for one ticket.
type Outcome struct {
	Ticket ticket.Ticket
	Action Action
	TaskID string
}

// Row is one line of the run report. Column order is stable whether the run
// was live or dry.
type Row struct {
	Key      string `json:"key"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Title    string `json:"title"`
	Labels   string `json:"labels"`
	Assignee string `json:"assignee"`
	Created  string `json:"created"`
	Action   string `json:"action"`
}

// Report accumulates per-ticket outcomes in processing order.
type Report struct {
	Rows    []Row `json:"rows"`
	Created int   `json:"created"`
	Updated int   `json:"updated"`
	DryRun  bool  `json:"dry_run"`
}

// Add appends the outcome for one ticket.
func (r *Report) Add(o Outcome) {
	t := o.Ticket
	r.Rows = append(r.Rows, Row{
		Key:      t.Key,
		Priority: t.Priority,
		Status:   t.Status,
		Title:    t.Title,
		Labels:   t.JoinedLabels(),
		Assignee: t.DisplayAssignee(),
		Created:  t.Created.Time.Format(constants.LabelDateFormat),
		Action:   string(o.Action),
	})

	switch o.Action {
	case ActionCreate:
		r.Created++
	case ActionUpdate:
		r.Updated++
	}
}

// Len returns the number of reported tickets.
func (r *Report) Len() int {
	return len(r.Rows)
}

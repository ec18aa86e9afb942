package output

import (
	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/reconcile"
	"github.com/notewell/curator/pkg/ticket"
)

// Column sets for ticket-shaped tables. Wide adds the verbose columns.
var (
	ticketHeaders = []string{"Key", "Priority", "Status", "Title"}
	wideHeaders   = []string{"Key", "Priority", "Status", "Title", "Labels", "Assignee", "Created"}
)

// ReportData converts a reconciliation report to table data. The column
// order is stable whether the run was live or dry.
func ReportData(report *reconcile.Report, wide bool) Data {
	headers := append([]string{}, ticketHeaders...)
	if wide {
		headers = append([]string{}, wideHeaders...)
	}
	headers = append(headers, "Action")

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		cells := []string{row.Key, row.Priority, row.Status, row.Title}
		if wide {
			cells = append(cells, row.Labels, row.Assignee, row.Created)
		}
		rows = append(rows, append(cells, row.Action))
	}

	return Data{Headers: headers, Rows: rows}
}

// TicketData converts fetched tickets to table data, without the action
// column the reconciliation report carries.
func TicketData(tickets []ticket.Ticket, wide bool) Data {
	headers := ticketHeaders
	if wide {
		headers = wideHeaders
	}

	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		cells := []string{t.Key, t.Priority, t.Status, t.Title}
		if wide {
			cells = append(cells,
				t.JoinedLabels(),
				t.DisplayAssignee(),
				t.Created.Time.Format(constants.LabelDateFormat),
			)
		}
		rows = append(rows, cells)
	}

	return Data{Headers: headers, Rows: rows}
}

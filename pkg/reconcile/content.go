package reconcile

import (
	"html/template"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/ticket"
)

// detailTemplate renders the HTML detail block of a freshly created task:
// a linked heading, a summary table, and an empty annotation region at the
// end for later sync markers.
var detailTemplate = template.Must(template.New("detail").Parse(
	`<h2><a href="{{.URL}}">{{.Key}}</a></h2>` +
		`<h3>Summary</h3>` +
		`<table>` +
		`  <tr> <td colspan="2">{{.Summary}}</td> </tr>` +
		`  <tr> <td style="text-align:right;"> <strong>Initial Priority:</strong></td> <td>{{.Priority}}</td> </tr>` +
		`  <tr> <td style="text-align:right;"> <strong>Created:</strong></td> <td>{{.Created}}</td> </tr>` +
		`  <tr> <td style="text-align:right;"> <strong>Jira Label(s):</strong></td> <td>{{.Labels}}</td> </tr>` +
		`  <tr> <td style="text-align:right;"> <strong>Mark:</strong></td> <td>{{.Mark}}</td> </tr>` +
		`</table>` +
		`<h3>Notes</h3>` +
		`<ul class="` + constants.MarkerListClass + `"><li></li></ul>`))

// detailData is the substitution set for detailTemplate.
type detailData struct {
	Key      string
	URL      string
	Summary  string
	Priority string
	Created  string
	Labels   string
	Mark     string
}

// renderDetail renders the content block for a new task. The Mark row
// records when this generation happened.
func renderDetail(t ticket.Ticket, now utc.Time) string {
	var sb strings.Builder
	err := detailTemplate.Execute(&sb, detailData{
		Key:      t.Key,
		URL:      t.URL,
		Summary:  t.Summary,
		Priority: t.Priority,
		Created:  t.Created.Time.Format(time.RFC3339),
		Labels:   strings.Join(t.Labels, ", "),
		Mark:     now.Time.Format(time.RFC3339),
	})
	if err != nil {
		// The template is static and the data is plain strings; execution
		// cannot fail at runtime.
		panic(err)
	}
	return sb.String()
}

// Package ticket defines the canonical in-memory representation of a Jira
// issue and the normalization from raw fetched records.
package ticket

import (
	"sort"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/errors"
)

// Raw is one fetched source record before normalization. Timestamps are the
// unparsed strings returned by the source API.
type Raw struct {
	Key      string
	Summary  string
	Status   string
	Priority string
	Assignee string
	Labels   []string
	Created  string
	Updated  string
	URL      string
}

// Ticket is the immutable normalized form of one Jira issue.
type Ticket struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Labels   []string `json:"labels"`
	Assignee string   `json:"assignee,omitempty"`
	Created  utc.Time `json:"created"`
	Updated  utc.Time `json:"updated"`
	URL      string   `json:"url"`
}

// timeLayouts are the timestamp layouts accepted from the source system.
// Jira serves offset timestamps with milliseconds; RFC3339 covers test
// fixtures and proxies that re-serialize.
var timeLayouts = []string{
	constants.JiraTimeFormat,
	time.RFC3339,
}

// New normalizes a raw record into a Ticket. A record with an unparsable
// timestamp is a data-integrity bug and returns MalformedRecordError; it is
// never silently defaulted.
func New(raw Raw) (Ticket, error) {
	created, err := parseTime(raw.Key, "created", raw.Created)
	if err != nil {
		return Ticket{}, err
	}
	updated, err := parseTime(raw.Key, "updated", raw.Updated)
	if err != nil {
		return Ticket{}, err
	}

	return Ticket{
		Key:      raw.Key,
		Title:    Title(raw.Summary),
		Summary:  raw.Summary,
		Status:   raw.Status,
		Priority: raw.Priority,
		Labels:   raw.Labels,
		Assignee: raw.Assignee,
		Created:  created,
		Updated:  updated,
		URL:      raw.URL,
	}, nil
}

// Title derives the display title from a summary, truncating long summaries
// to TitleTruncLen characters plus an ellipsis.
func Title(summary string) string {
	runes := []rune(summary)
	if len(runes) <= constants.TitleMaxLen {
		return summary
	}
	return string(runes[:constants.TitleTruncLen]) + "..."
}

// DisplayAssignee returns the assignee display name, or the "N/A" sentinel
// when the issue is unassigned.
func (t Ticket) DisplayAssignee() string {
	if t.Assignee == "" {
		return "N/A"
	}
	return t.Assignee
}

// JoinedLabels returns the labels sorted and colon-joined, the deterministic
// form stored in the jiraLabels attribute.
func (t Ticket) JoinedLabels() string {
	labels := make([]string, len(t.Labels))
	copy(labels, t.Labels)
	sort.Strings(labels)
	return strings.Join(labels, ":")
}

// Sort orders tickets by creation time ascending, oldest first, with the key
// as tie-break so output is stable.
func Sort(tickets []Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].Created.Time.Equal(tickets[j].Created.Time) {
			return tickets[i].Key < tickets[j].Key
		}
		return tickets[i].Created.Time.Before(tickets[j].Created.Time)
	})
}

// parseTime parses a source timestamp, trying each accepted layout.
func parseTime(key, field, value string) (utc.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return utc.Time{Time: t.UTC()}, nil
		}
	}
	return utc.Time{}, &errors.MalformedRecordError{
		Key:   key,
		Field: field,
		Value: value,
		Err:   errors.New("unrecognized timestamp layout"),
	}
}

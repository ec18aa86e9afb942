// Package constants provides shared constants used throughout the curator codebase.
package constants

import "time"

// Timeout constants define various timeout durations used in the application.
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the Jira
	// and notes server APIs.
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands.
	CommandTimeout = 10 * time.Minute
)

// Date and time formats shared between note attributes and sync markers.
const (
	// LabelDateFormat is the date layout stored in note label attributes
	// (todoDate, doneDate, jiraUpdated).
	LabelDateFormat = "2006-01-02"

	// MarkerTimeFormat is the timestamp layout used in annotation markers
	// appended to task content.
	MarkerTimeFormat = "2006-01-02 15:04"

	// JiraTimeFormat is the timestamp layout Jira uses in issue fields.
	JiraTimeFormat = "2006-01-02T15:04:05.000-0700"
)

// Ticket display constants.
const (
	// TitleMaxLen is the longest summary rendered as a title unmodified.
	TitleMaxLen = 45

	// TitleTruncLen is the number of summary characters kept when a title
	// is truncated; an ellipsis is appended.
	TitleTruncLen = 42
)

// Note content structure.
const (
	// MarkerListClass is the CSS class identifying the annotation region
	// (the append-only marker list) inside task content.
	MarkerListClass = "notes-list"
)

// File permission constants define standard Unix file permissions.
const (
	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

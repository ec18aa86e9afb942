package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewell/curator/pkg/reconcile"
	"github.com/notewell/curator/pkg/ticket"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(FormatJSON)

	data := struct {
		Key string `json:"key"`
	}{Key: "OCP-1"}
	require.NoError(t, formatter.Format(&buf, data))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "OCP-1", decoded["key"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(FormatYAML)

	data := struct {
		Key string `json:"key"`
	}{Key: "OCP-1"}
	require.NoError(t, formatter.Format(&buf, data))
	assert.Contains(t, buf.String(), "OCP-1")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(FormatTable)

	data := Data{
		Headers: []string{"Key", "Status"},
		Rows:    [][]string{{"OCP-1", "New"}},
	}
	require.NoError(t, formatter.Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "OCP-1")
	assert.Contains(t, out, "New")
}

func TestTableFormatterStructSlice(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewFormatter(FormatTable)

	data := []struct {
		Key    string `json:"key"`
		Status string `json:"status"`
	}{{Key: "OCP-1", Status: "New"}}
	require.NoError(t, formatter.Format(&buf, data))

	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "OCP-1")
}

func TestReportDataColumns(t *testing.T) {
	report := &reconcile.Report{
		Rows: []reconcile.Row{{
			Key:      "OCP-1",
			Priority: "Blocker",
			Status:   "New",
			Title:    "kubelet crashloops",
			Labels:   "node:triaged",
			Assignee: "A Tester",
			Created:  "2024-03-01",
			Action:   "create",
		}},
	}

	narrow := ReportData(report, false)
	assert.Equal(t, []string{"Key", "Priority", "Status", "Title", "Action"}, narrow.Headers)
	assert.Equal(t, []string{"OCP-1", "Blocker", "New", "kubelet crashloops", "create"}, narrow.Rows[0])

	wide := ReportData(report, true)
	assert.Equal(t, []string{"Key", "Priority", "Status", "Title", "Labels", "Assignee", "Created", "Action"}, wide.Headers)
	assert.Equal(t, "node:triaged", wide.Rows[0][4])
}

func TestTicketDataColumns(t *testing.T) {
	tickets := []ticket.Ticket{{
		Key:      "OCP-1",
		Title:    "kubelet crashloops",
		Priority: "Blocker",
		Status:   "New",
		Labels:   []string{"triaged", "node"},
	}}

	narrow := TicketData(tickets, false)
	assert.Equal(t, []string{"Key", "Priority", "Status", "Title"}, narrow.Headers)

	wide := TicketData(tickets, true)
	require.Len(t, wide.Rows, 1)
	assert.Equal(t, "node:triaged", wide.Rows[0][4])
	assert.Equal(t, "N/A", wide.Rows[0][5])
}

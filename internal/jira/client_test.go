package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewell/curator/pkg/errors"
)

func issueJSON(key, summary, priority, status string, labels []string, assignee string) map[string]any {
	fields := map[string]any{
		"summary":  summary,
		"created":  "2024-03-01T10:00:00.000+0100",
		"updated":  "2024-03-04T16:30:00.000+0100",
		"labels":   labels,
		"status":   map[string]any{"name": status},
		"priority": map[string]any{"name": priority},
	}
	if assignee != "" {
		fields["assignee"] = map[string]any{"displayName": assignee}
	}
	return map[string]any{"key": key, "fields": fields}
}

func TestSearchNormalizesIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/2/search", r.URL.Path)
		require.Equal(t, "project = X", r.URL.Query().Get("jql"))

		resp := map[string]any{
			"startAt": 0, "maxResults": 50, "total": 2,
			"issues": []map[string]any{
				issueJSON("OCP-1", "kubelet crashloops on restart", "Blocker", "New", []string{"node", "triaged"}, "A Tester"),
				issueJSON("OCP-2", "crio image pull stalls", "Critical", "New", nil, ""),
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	defer client.Close()

	tickets, err := client.Search(context.Background(), "project = X")
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	assert.Equal(t, "OCP-1", tickets[0].Key)
	assert.Equal(t, "kubelet crashloops on restart", tickets[0].Title)
	assert.Equal(t, "Blocker", tickets[0].Priority)
	assert.Equal(t, "A Tester", tickets[0].Assignee)
	assert.Equal(t, "node:triaged", tickets[0].JoinedLabels())
	assert.Equal(t, srv.URL+"/browse/OCP-1", tickets[0].URL)
	assert.Equal(t, "2024-03-01T09:00:00Z", tickets[0].Created.Time.Format("2006-01-02T15:04:05Z"))

	assert.Empty(t, tickets[1].Assignee)
	assert.Equal(t, "N/A", tickets[1].DisplayAssignee())
}

func TestSearchPaginates(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		startAt, err := strconv.Atoi(r.URL.Query().Get("startAt"))
		require.NoError(t, err)

		var issues []map[string]any
		for i := startAt; i < startAt+50 && i < 75; i++ {
			issues = append(issues, issueJSON(fmt.Sprintf("OCP-%d", i), "summary", "Normal", "New", nil, ""))
		}
		resp := map[string]any{"startAt": startAt, "maxResults": 50, "total": 75, "issues": issues}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	defer client.Close()

	tickets, err := client.Search(context.Background(), "project = X")
	require.NoError(t, err)
	assert.Len(t, tickets, 75)
	assert.Equal(t, 2, requests)
}

func TestFetchChainsQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "A-1"
		if r.URL.Query().Get("jql") == "second" {
			key = "B-1"
		}
		resp := map[string]any{
			"startAt": 0, "maxResults": 50, "total": 1,
			"issues": []map[string]any{issueJSON(key, "summary", "Normal", "New", nil, "")},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	defer client.Close()

	tickets, err := client.Fetch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "A-1", tickets[0].Key)
	assert.Equal(t, "B-1", tickets[1].Key)
}

func TestSearchMalformedTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := issueJSON("OCP-1", "summary", "Normal", "New", nil, "")
		raw["fields"].(map[string]any)["created"] = "yesterday"
		resp := map[string]any{
			"startAt": 0, "maxResults": 50, "total": 1,
			"issues": []map[string]any{raw},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	defer client.Close()

	_, err := client.Search(context.Background(), "project = X")
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecord(err))
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "jql parse error", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token")
	defer client.Close()

	_, err := client.Search(context.Background(), "bogus ===")
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestFixturesShape(t *testing.T) {
	fixtures := Fixtures()
	require.Len(t, fixtures, 3)

	assert.Equal(t, "TEST-1", fixtures[0].Key)
	assert.Len(t, fixtures[0].Title, 45)
	assert.Equal(t, "Blocker", fixtures[0].Priority)

	assert.Equal(t, "This is a test ticket.", fixtures[2].Summary)
	assert.Equal(t, "N/A", fixtures[2].DisplayAssignee())
}

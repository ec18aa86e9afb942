// Package jira provides a read-only client for the Jira issue search API,
// mapping raw issues into normalized tickets.
package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/notewell/curator/internal/transport"
	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/ticket"
)

// pageSize is the number of issues requested per search page.
const pageSize = 50

// searchFields are the issue fields the normalizer consumes.
const searchFields = "summary,status,priority,labels,assignee,created,updated"

// Client is a Jira REST API client scoped to one reconciliation run.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// NewClient creates a Jira client. The token is a personal access token
// sent as a Bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		transport: transport.New("jira", &transport.BearerAuth{}, token),
		baseURL:   baseURL,
	}
}

// Close releases the client's connections.
func (c *Client) Close() {
	c.transport.Close()
}

// Response structures for the Jira search API.
type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []issue `json:"issues"`
}

type issue struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary  string   `json:"summary"`
	Created  string   `json:"created"`
	Updated  string   `json:"updated"`
	Labels   []string `json:"labels"`
	Status   named    `json:"status"`
	Priority named    `json:"priority"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
}

type named struct {
	Name string `json:"name"`
}

// Search runs one JQL query, following pagination, and returns the
// normalized tickets. A record with an unparsable timestamp aborts the
// fetch; it is a data-integrity bug, not a recoverable condition.
func (c *Client) Search(ctx context.Context, jql string) ([]ticket.Ticket, error) {
	log := logging.Ctx(ctx)

	var tickets []ticket.Ticket
	for startAt := 0; ; {
		page, err := c.searchPage(ctx, jql, startAt)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Issues {
			t, err := ticket.New(c.normalize(raw))
			if err != nil {
				return nil, err
			}
			tickets = append(tickets, t)
		}

		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}

	log.Debug().Str("jql", jql).Int("tickets", len(tickets)).Msg("Jira search complete")
	return tickets, nil
}

// Fetch runs every query in order and chains the results.
func (c *Client) Fetch(ctx context.Context, queries []string) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	for _, jql := range queries {
		found, err := c.Search(ctx, jql)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, found...)
	}
	return tickets, nil
}

// searchPage fetches one page of search results.
func (c *Client) searchPage(ctx context.Context, jql string, startAt int) (*searchResponse, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("fields", searchFields)
	query.Set("startAt", fmt.Sprintf("%d", startAt))
	query.Set("maxResults", fmt.Sprintf("%d", pageSize))

	resp, err := c.transport.Get(ctx, c.baseURL+"/rest/api/2/search?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var page searchResponse
	if err := c.transport.DecodeResponse(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// normalize maps Jira issue fields to a raw ticket record.
func (c *Client) normalize(raw issue) ticket.Raw {
	assignee := ""
	if raw.Fields.Assignee != nil {
		assignee = raw.Fields.Assignee.DisplayName
	}

	return ticket.Raw{
		Key:      raw.Key,
		Summary:  raw.Fields.Summary,
		Status:   raw.Fields.Status.Name,
		Priority: raw.Fields.Priority.Name,
		Assignee: assignee,
		Labels:   raw.Fields.Labels,
		Created:  raw.Fields.Created,
		Updated:  raw.Fields.Updated,
		URL:      c.baseURL + "/browse/" + raw.Key,
	}
}

// Package transport provides the authenticated HTTP client shared by the
// Jira and notes server API clients.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/errors"
)

// Client provides HTTP client functionality with authentication. It is a
// scoped resource: acquired once per run and released with Close on every
// exit path.
type Client struct {
	http    *http.Client
	auth    Authenticator
	token   string
	service string
}

// New creates a new transport client for a service, with the specified
// authenticator and token.
func New(service string, auth Authenticator, token string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:    auth,
		token:   token,
		service: service,
	}
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: req.URL.Path,
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(req)
}

// JSON performs a request with a JSON body.
func (c *Client) JSON(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = strings.NewReader(string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}
	return c.Do(req)
}

// Text performs a request with a plain-text body, used for note content.
func (c *Client) Text(ctx context.Context, method, url, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}
	req.Header.Set("Content-Type", "text/plain")
	return c.Do(req)
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// DecodeResponse decodes a JSON response into the target structure and
// closes the body. Non-2xx statuses become APIErrors carrying the body.
func (c *Client) DecodeResponse(resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapResource("read", "response body", "", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &errors.APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Endpoint:   resp.Request.URL.Path,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", c.service+" response", err)
	}
	return nil
}

// Discard drains and closes a response whose body is not needed, returning
// an APIError on non-2xx statuses.
func (c *Client) Discard(resp *http.Response) error {
	return c.DecodeResponse(resp, nil)
}

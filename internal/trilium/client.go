// Package trilium provides the ETAPI client for the notes server and the
// task store adapter built on it.
package trilium

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/notewell/curator/internal/transport"
	"github.com/notewell/curator/pkg/constants"
	"github.com/notewell/curator/pkg/errors"
)

// Attribute is one note attribute as served by the ETAPI. Type is "label"
// for single-valued attributes and "relation" for note links.
type Attribute struct {
	AttributeID string `json:"attributeId"`
	NoteID      string `json:"noteId"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Value       string `json:"value"`
}

// Note is the ETAPI note envelope. Content is fetched separately.
type Note struct {
	NoteID     string      `json:"noteId"`
	Title      string      `json:"title"`
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Client is a notes server ETAPI client scoped to one reconciliation run.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// NewClient creates an ETAPI client. The token is sent verbatim in the
// Authorization header, the scheme the ETAPI expects.
func NewClient(baseURL, token string) *Client {
	return &Client{
		transport: transport.New("trilium", &transport.RawTokenAuth{}, token),
		baseURL:   baseURL,
	}
}

// Close releases the client's connections.
func (c *Client) Close() {
	c.transport.Close()
}

// SearchOpts narrow a note search.
type SearchOpts struct {
	// AncestorID limits results to descendants of the given note.
	AncestorID string
}

type searchResponse struct {
	Results []Note `json:"results"`
}

// SearchNotes runs a saved-search style query and returns the matching
// notes with their attributes.
func (c *Client) SearchNotes(ctx context.Context, search string, opts SearchOpts) ([]Note, error) {
	query := url.Values{}
	query.Set("search", search)
	if opts.AncestorID != "" {
		query.Set("ancestorNoteId", opts.AncestorID)
	}

	resp, err := c.transport.Get(ctx, c.baseURL+"/etapi/notes?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var decoded searchResponse
	if err := c.transport.DecodeResponse(resp, &decoded); err != nil {
		return nil, err
	}
	return decoded.Results, nil
}

// SearchOne runs a query that must match exactly one note.
func (c *Client) SearchOne(ctx context.Context, search string, opts SearchOpts) (Note, error) {
	notes, err := c.SearchNotes(ctx, search, opts)
	if err != nil {
		return Note{}, err
	}
	switch len(notes) {
	case 0:
		return Note{}, errors.NewNotFoundError("note", search)
	case 1:
		return notes[0], nil
	default:
		return Note{}, errors.NewAmbiguousMatchError(search, len(notes))
	}
}

// NoteContent fetches a note's content as served, HTML for text notes.
func (c *Client) NoteContent(ctx context.Context, noteID string) (string, error) {
	resp, err := c.transport.Get(ctx, c.baseURL+"/etapi/notes/"+noteID+"/content")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &errors.APIError{
			Service:    "trilium",
			StatusCode: resp.StatusCode,
			Endpoint:   "/etapi/notes/" + noteID + "/content",
			Message:    "fetch note content",
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WrapResource("read", "note content", noteID, err)
	}
	return string(body), nil
}

// PutContent replaces a note's content.
func (c *Client) PutContent(ctx context.Context, noteID, content string) error {
	resp, err := c.transport.Text(ctx, http.MethodPut, c.baseURL+"/etapi/notes/"+noteID+"/content", content)
	if err != nil {
		return err
	}
	return c.transport.Discard(resp)
}

// CreateNoteParams describe a note to create.
type CreateNoteParams struct {
	ParentNoteID string `json:"parentNoteId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Content      string `json:"content"`
}

type createNoteResponse struct {
	Note Note `json:"note"`
}

// CreateNote creates a note under a parent and returns it.
func (c *Client) CreateNote(ctx context.Context, params CreateNoteParams) (Note, error) {
	resp, err := c.transport.JSON(ctx, http.MethodPost, c.baseURL+"/etapi/create-note", params)
	if err != nil {
		return Note{}, err
	}

	var decoded createNoteResponse
	if err := c.transport.DecodeResponse(resp, &decoded); err != nil {
		return Note{}, err
	}
	return decoded.Note, nil
}

// CreateAttribute creates a label or relation attribute on a note.
func (c *Client) CreateAttribute(ctx context.Context, noteID, typ, name, value string) (Attribute, error) {
	payload := Attribute{NoteID: noteID, Type: typ, Name: name, Value: value}
	resp, err := c.transport.JSON(ctx, http.MethodPost, c.baseURL+"/etapi/attributes", payload)
	if err != nil {
		return Attribute{}, err
	}

	var created Attribute
	if err := c.transport.DecodeResponse(resp, &created); err != nil {
		return Attribute{}, err
	}
	return created, nil
}

// PatchAttribute updates the value of an existing attribute.
func (c *Client) PatchAttribute(ctx context.Context, attributeID, value string) error {
	payload := map[string]string{"value": value}
	resp, err := c.transport.JSON(ctx, http.MethodPatch, c.baseURL+"/etapi/attributes/"+attributeID, payload)
	if err != nil {
		return err
	}
	return c.transport.Discard(resp)
}

// CreateBranch clones a note under another parent with a branch prefix.
func (c *Client) CreateBranch(ctx context.Context, noteID, parentNoteID, prefix string) error {
	payload := map[string]string{
		"noteId":       noteID,
		"parentNoteId": parentNoteID,
		"prefix":       prefix,
	}
	resp, err := c.transport.JSON(ctx, http.MethodPost, c.baseURL+"/etapi/branches", payload)
	if err != nil {
		return err
	}
	return c.transport.Discard(resp)
}

// DayNote returns the calendar day note for a date, creating it server-side
// if it does not exist yet.
func (c *Client) DayNote(ctx context.Context, day time.Time) (Note, error) {
	date := day.Format(constants.LabelDateFormat)
	resp, err := c.transport.Get(ctx, c.baseURL+"/etapi/calendar/days/"+date)
	if err != nil {
		return Note{}, err
	}

	var note Note
	if err := c.transport.DecodeResponse(resp, &note); err != nil {
		return Note{}, fmt.Errorf("day note %s: %w", date, err)
	}
	return note, nil
}

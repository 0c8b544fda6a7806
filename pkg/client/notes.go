package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Note is a note as returned by the API
type Note struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	UserID string `json:"_userId"`
}

// NoteRequest carries the writable fields of a note
type NoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// ListNotes returns all notes owned by the authenticated user
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/notes", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var notes []Note
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote fetches a single note by id
func (c *Client) GetNote(ctx context.Context, noteID string) (*Note, error) {
	return c.noteRequest(ctx, http.MethodGet, "/notes/"+noteID, nil, http.StatusOK)
}

// CreateNote creates a note owned by the authenticated user
func (c *Client) CreateNote(ctx context.Context, note NoteRequest) (*Note, error) {
	return c.noteRequest(ctx, http.MethodPost, "/notes", &note, http.StatusCreated)
}

// UpdateNote replaces the writable fields of a note
func (c *Client) UpdateNote(ctx context.Context, noteID string, note NoteRequest) (*Note, error) {
	return c.noteRequest(ctx, http.MethodPatch, "/notes/"+noteID, &note, http.StatusOK)
}

// DeleteNote deletes a note and returns the removed document
func (c *Client) DeleteNote(ctx context.Context, noteID string) (*Note, error) {
	return c.noteRequest(ctx, http.MethodDelete, "/notes/"+noteID, nil, http.StatusOK)
}

func (c *Client) noteRequest(ctx context.Context, method, path string, payload *NoteRequest, wantStatus int) (*Note, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != wantStatus {
		return nil, statusError(resp)
	}

	var note Note
	if err := json.NewDecoder(resp.Body).Decode(&note); err != nil {
		return nil, err
	}
	return &note, nil
}

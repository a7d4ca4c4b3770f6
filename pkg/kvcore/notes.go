package kvcore

import (
	"context"
	"encoding/json"
	"net/http"
)

// NotesService manages the notes logged on a contact.
type NotesService struct {
	tx doer
}

// NoteInput is the payload for creating or updating a note. Fields are
// relayed unchanged; the API validates its own schema.
type NoteInput struct {
	Date              string `json:"date,omitempty"`
	Title             string `json:"title,omitempty"`
	Details           string `json:"details,omitempty"`
	ActionOwnerUserID string `json:"action_owner_user_id,omitempty"`
}

// List retrieves the notes on a contact.
func (s *NotesService) List(ctx context.Context, contactID string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + contactID + "/notes"})
}

// Get retrieves a single note.
func (s *NotesService) Get(ctx context.Context, contactID, noteID string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + contactID + "/note/" + noteID})
}

// Create logs a note on a contact.
func (s *NotesService) Create(ctx context.Context, contactID string, in NoteInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/contact/" + contactID + "/action/note", body: in})
}

// Update updates a logged note.
func (s *NotesService) Update(ctx context.Context, contactID, noteID string, in NoteInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + contactID + "/action/note/" + noteID, body: in})
}

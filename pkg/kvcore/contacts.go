package kvcore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// ContactsService manages contacts and contact-scoped actions.
type ContactsService struct {
	tx doer
}

// EmailInput is the payload for SendEmail.
type EmailInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// TextInput is the payload for SendText.
type TextInput struct {
	Message string `json:"message"`
}

// QuestionInput is the payload for AskQuestion.
type QuestionInput struct {
	WebsiteID string `json:"website_id,omitempty"`
	MLSID     string `json:"mls_id"`
	Question  string `json:"question"`
}

// AppointmentInput is the payload for RequestAppointment.
type AppointmentInput struct {
	MLSID    string `json:"mls_id"`
	Question string `json:"question"`
	Date     string `json:"date"`
}

// List retrieves contacts. Filters are passed through verbatim as query
// parameters (e.g. "status", "type", "page"); the API is the authority on
// which filters exist.
func (s *ContactsService) List(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	query := url.Values{}
	for k, v := range filters {
		query.Set(k, v)
	}
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contacts", query: query})
}

// Get retrieves a single contact.
func (s *ContactsService) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + id})
}

// Create creates a contact. The payload is relayed unchanged; the API
// validates its own schema.
func (s *ContactsService) Create(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/contact", body: payload})
}

// Update updates a contact.
func (s *ContactsService) Update(ctx context.Context, id string, payload map[string]any) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + id, body: payload})
}

// Delete deletes a contact.
func (s *ContactsService) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodDelete, path: "/contact/" + id})
}

// GetTags retrieves the tags on a contact.
func (s *ContactsService) GetTags(ctx context.Context, id string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + id + "/tags"})
}

// AddTags attaches tags to a contact.
func (s *ContactsService) AddTags(ctx context.Context, id string, tags []string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{
		method: http.MethodPut,
		path:   "/contact/" + id + "/tags",
		body:   map[string][]string{"tags": tags},
	})
}

// RemoveTags dissociates tags from a contact by name. The tag resources
// themselves are not deleted upstream; that asymmetry is API behavior and is
// deliberately not masked here.
func (s *ContactsService) RemoveTags(ctx context.Context, id string, names []string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{
		method: http.MethodDelete,
		path:   "/contact/" + id + "/tags",
		body:   map[string][]string{"tags": names},
	})
}

// GetListingViews retrieves the listings a contact has viewed.
func (s *ContactsService) GetListingViews(ctx context.Context, id string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + id + "/listingviews"})
}

// GetMarketReports retrieves the market reports for a contact.
func (s *ContactsService) GetMarketReports(ctx context.Context, id string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + id + "/marketreports"})
}

// SendEmail sends an email to a contact.
func (s *ContactsService) SendEmail(ctx context.Context, id string, in EmailInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + id + "/email", body: in})
}

// SendText sends a text message to a contact.
func (s *ContactsService) SendText(ctx context.Context, id string, in TextInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + id + "/text", body: in})
}

// AskQuestion records a question from a contact about a listing.
func (s *ContactsService) AskQuestion(ctx context.Context, id string, in QuestionInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + id + "/question", body: in})
}

// RequestAppointment records an appointment request from a contact for a
// listing.
func (s *ContactsService) RequestAppointment(ctx context.Context, id string, in AppointmentInput) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + id + "/appointment", body: in})
}

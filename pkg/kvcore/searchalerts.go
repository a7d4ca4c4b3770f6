package kvcore

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// SearchAlertsService manages the two saved-search alert slots on a contact.
type SearchAlertsService struct {
	tx doer
}

func validateAlertNumber(n int) error {
	if !IsValidSearchAlertNumber(n) {
		return &ValidationError{Message: "search alert number must be 1 or 2"}
	}
	return nil
}

// alertNumber extracts the slot number from a create payload. JSON decoding
// produces float64, direct callers may pass int.
func alertNumber(payload map[string]any) (int, bool) {
	switch n := payload["number"].(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// List retrieves the search alerts on a contact.
func (s *SearchAlertsService) List(ctx context.Context, contactID string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + contactID + "/searchalerts"})
}

// Create creates a search alert in the slot named by the payload's "number"
// field. Known fields are number (required, 1 or 2), active, areas, types
// (a comma-joined combination of the DealTypes values, passed through
// without set validation), beds, baths, min_price, and max_price; the
// payload is relayed unchanged, unknown fields included. Fails with
// *ValidationError before any request is sent when the slot is not 1 or 2.
func (s *SearchAlertsService) Create(ctx context.Context, contactID string, payload map[string]any) (json.RawMessage, error) {
	n, ok := alertNumber(payload)
	if !ok {
		return nil, &ValidationError{Message: "search alert number must be 1 or 2"}
	}
	if err := validateAlertNumber(n); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/contact/" + contactID + "/searchalert", body: payload})
}

// Update updates the search alert in a slot. The payload is relayed
// unchanged.
func (s *SearchAlertsService) Update(ctx context.Context, contactID string, number int, payload map[string]any) (json.RawMessage, error) {
	if err := validateAlertNumber(number); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{
		method: http.MethodPut,
		path:   "/contact/" + contactID + "/searchalert/" + strconv.Itoa(number),
		body:   payload,
	})
}

// Delete removes the search alert in a slot.
func (s *SearchAlertsService) Delete(ctx context.Context, contactID string, number int) (json.RawMessage, error) {
	if err := validateAlertNumber(number); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{
		method: http.MethodDelete,
		path:   "/contact/" + contactID + "/searchalert/" + strconv.Itoa(number),
	})
}

// Send triggers immediate delivery of the alert in a slot.
func (s *SearchAlertsService) Send(ctx context.Context, contactID string, number int) (json.RawMessage, error) {
	if err := validateAlertNumber(number); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{
		method: http.MethodPut,
		path:   "/contact/" + contactID + "/searchalert/" + strconv.Itoa(number) + "/send",
	})
}

// GetRecent retrieves the listings recently matched by the alert in a slot.
func (s *SearchAlertsService) GetRecent(ctx context.Context, contactID string, number int) (json.RawMessage, error) {
	if err := validateAlertNumber(number); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{
		method: http.MethodGet,
		path:   "/contact/" + contactID + "/searchalert/" + strconv.Itoa(number) + "/recent",
	})
}

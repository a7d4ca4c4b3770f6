package kvcore

import (
	"context"
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CallsService manages the calls logged on a contact.
type CallsService struct {
	tx doer
}

// CallInput is the payload for creating or updating a logged call. Result
// and Direction are validated against the known call result and direction
// tables when set; a zero Result or empty Direction is omitted from the
// request. All other fields are relayed unchanged.
type CallInput struct {
	Date              string `json:"date,omitempty"`
	Direction         string `json:"direction,omitempty"`
	Result            int    `json:"result,omitempty"`
	RecordingURL      string `json:"recording_url,omitempty"`
	ActionOwnerUserID string `json:"action_owner_user_id,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

func (in CallInput) validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Result, callResultRule),
		validation.Field(&in.Direction, callDirectionRule),
	)
	if err != nil {
		return newValidationError(err)
	}
	return nil
}

// List retrieves the calls logged on a contact.
func (s *CallsService) List(ctx context.Context, contactID string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + contactID + "/calls"})
}

// Get retrieves a single logged call.
func (s *CallsService) Get(ctx context.Context, contactID, callID string) (json.RawMessage, error) {
	return s.tx.do(ctx, request{method: http.MethodGet, path: "/contact/" + contactID + "/call/" + callID})
}

// Create logs a call on a contact. Fails with *ValidationError before any
// request is sent when Result or Direction is out of range.
func (s *CallsService) Create(ctx context.Context, contactID string, in CallInput) (json.RawMessage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/contact/" + contactID + "/action/call", body: in})
}

// Update updates a logged call. Validates like Create.
func (s *CallsService) Update(ctx context.Context, contactID, callID string, in CallInput) (json.RawMessage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{method: http.MethodPut, path: "/contact/" + contactID + "/action/call/" + callID, body: in})
}

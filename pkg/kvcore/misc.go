package kvcore

import (
	"context"
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MiscService covers the top-level operations that are not scoped under a
// single contact resource.
type MiscService struct {
	tx doer
}

// requireField rejects a payload missing a required key. Everything else in
// the payload is relayed unchanged.
func requireField(payload map[string]any, key string) error {
	if err := validation.Validate(payload[key], validation.Required); err != nil {
		return &ValidationError{Message: key + ": " + err.Error()}
	}
	return nil
}

// ScheduleCall schedules a call with a lead. The payload's "lead_id" is
// required; date, notes, and the repeat fields (repeat_timeframe,
// repeat_times, repeat_calls) are relayed unvalidated along with anything
// else the caller includes. Fails with *ValidationError before any request
// is sent when lead_id is missing.
func (s *MiscService) ScheduleCall(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	if err := requireField(payload, "lead_id"); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/schedulecall", body: payload})
}

// AddListingView records that a lead viewed a listing. The payload's
// "lead_id" and "mls_id" are required; everything else is relayed
// unchanged. Fails with *ValidationError before any request is sent when
// either is missing.
func (s *MiscService) AddListingView(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	if err := requireField(payload, "lead_id"); err != nil {
		return nil, err
	}
	if err := requireField(payload, "mls_id"); err != nil {
		return nil, err
	}
	return s.tx.do(ctx, request{method: http.MethodPost, path: "/listingview", body: payload})
}

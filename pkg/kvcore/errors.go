package kvcore

import (
	"encoding/json"
	"fmt"
)

// APIError is the single error shape for every failed exchange with the
// KVCore API. Exactly one of three cases produces it:
//
//   - the API responded with a non-2xx status: StatusCode and Body carry the
//     upstream status and payload, Message carries the payload's "message" or
//     "error" field when present;
//   - the request was sent but no response arrived (network failure or
//     timeout): StatusCode is 503 and Body is nil;
//   - the request could not be built or sent at all: StatusCode is 500 and
//     Body is nil.
type APIError struct {
	// Message is a human-readable description of the failure.
	Message string

	// StatusCode is the upstream HTTP status, or 503/500 for the two
	// no-response cases.
	StatusCode int

	// Body is the raw upstream response payload, if one was received.
	Body json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kvcore: %s (status %d)", e.Message, e.StatusCode)
}

// ValidationError reports caller input rejected before any request was sent.
// The API was not contacted; the caller can correct the input and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "kvcore: invalid input: " + e.Message
}

func newValidationError(err error) *ValidationError {
	return &ValidationError{Message: err.Error()}
}

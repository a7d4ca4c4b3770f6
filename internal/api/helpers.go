// Package api implements the HTTP boundary of the proxy. Each handler
// translates a request into one client call and relays the result; the
// upstream payload is never reshaped.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/realforge/kvcore-go/pkg/kvcore"
)

// errorResponse is the envelope for every handler failure.
type errorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// writeError maps an error to the response envelope: validation failures
// become 400, upstream failures keep their normalized status and carry the
// upstream body under "details", anything else is a 500.
func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	var vErr *kvcore.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message})
		return
	}

	var apiErr *kvcore.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{
			Error:   apiErr.Message,
			Details: apiErr.Body,
		})
		return
	}

	logger.Error("unexpected handler error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// relayPayload writes the raw upstream payload through unchanged.
func relayPayload(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	if len(payload) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Write(payload)
}

// decodeBody decodes the request body into target, returning a client-fault
// error suitable for writeError.
func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return &kvcore.ValidationError{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// queryFilters flattens query parameters into the filter map the client
// passes through to the API. Repeated parameters keep the first value.
func queryFilters(r *http.Request) map[string]string {
	filters := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			filters[k] = vs[0]
		}
	}
	return filters
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

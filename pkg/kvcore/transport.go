package kvcore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultBaseURL is the public KVCore API endpoint.
	DefaultBaseURL = "https://api.kvcore.com/v2/public"

	// DefaultTimeout bounds every API round trip unless overridden.
	DefaultTimeout = 30 * time.Second

	noResponseMessage = "No response received from KVCore API"
)

// request describes one outbound API call. Built per operation, never
// shared.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// doer executes API requests. The resource services depend on this interface
// so tests can substitute a stub transport.
type doer interface {
	do(ctx context.Context, req request) (json.RawMessage, error)
}

// transport owns the single outbound channel to the KVCore API. It attaches
// the bearer credential to every request and normalizes all failures into
// *APIError.
type transport struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     hclog.Logger
	debug      atomic.Bool
}

func newTransport(cfg Config) (*transport, error) {
	if cfg.BearerToken == "" {
		return nil, fmt.Errorf("kvcore: bearer token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	t := &transport{
		baseURL: baseURL,
		token:   cfg.BearerToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("kvcore"),
	}
	t.debug.Store(cfg.Debug)

	return t, nil
}

// do executes one API round trip and returns the raw response payload
// unchanged. The upstream schema is the contract; nothing is remapped.
func (t *transport) do(ctx context.Context, req request) (json.RawMessage, error) {
	var bodyReader io.Reader
	if req.body != nil {
		reqJSON, err := json.Marshal(req.body)
		if err != nil {
			return nil, &APIError{
				Message:    err.Error(),
				StatusCode: http.StatusInternalServerError,
			}
		}
		bodyReader = bytes.NewReader(reqJSON)
	}

	u := t.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bodyReader)
	if err != nil {
		return nil, &APIError{
			Message:    err.Error(),
			StatusCode: http.StatusInternalServerError,
		}
	}

	httpReq.Header.Set("Authorization", "Bearer "+t.token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	reqID := uuid.NewString()
	if t.debug.Load() {
		t.logger.Debug("sending request",
			"id", reqID,
			"method", req.method,
			"path", req.path,
		)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if t.debug.Load() {
			t.logger.Debug("no response received",
				"id", reqID,
				"error", err,
			)
		}
		return nil, &APIError{
			Message:    noResponseMessage,
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Message:    noResponseMessage,
			StatusCode: http.StatusServiceUnavailable,
		}
	}

	if t.debug.Load() {
		t.logger.Debug("received response",
			"id", reqID,
			"status", resp.StatusCode,
		)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Message:    upstreamErrorMessage(respBody, resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return respBody, nil
}

// upstreamErrorMessage extracts a message from an error payload, preferring
// the "message" field, then "error", then a generic fallback.
func upstreamErrorMessage(body []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fmt.Sprintf("KVCore API request failed with status %d", status)
}

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realforge/kvcore-go/internal/server"
	"github.com/realforge/kvcore-go/pkg/kvcore"
)

// upstreamCall records one request seen by the fake upstream API.
type upstreamCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// newTestServer builds a Server whose client talks to a fake upstream that
// responds with status and payload, recording every call.
func newTestServer(t *testing.T, status int, payload string) (server.Server, *[]upstreamCall) {
	t.Helper()

	var calls []upstreamCall
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, upstreamCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(upstream.Close)

	client, err := kvcore.New(kvcore.Config{
		BaseURL:     upstream.URL,
		BearerToken: "test-token",
		Logger:      hclog.NewNullLogger(),
	})
	require.NoError(t, err)

	return server.Server{
		Client: client,
		Logger: hclog.NewNullLogger(),
	}, &calls
}

func TestContactsHandlerRouting(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		wantMethod   string
		wantPath     string
		wantBodyFrag string
	}{
		{
			name:       "list contacts",
			method:     "GET",
			path:       "/contacts",
			wantMethod: "GET",
			wantPath:   "/contacts",
		},
		{
			name:         "create contact",
			method:       "POST",
			path:         "/contacts",
			body:         `{"name":"Jamie","email":"jamie@example.com"}`,
			wantMethod:   "POST",
			wantPath:     "/contact",
			wantBodyFrag: `"jamie@example.com"`,
		},
		{
			name:       "get contact",
			method:     "GET",
			path:       "/contacts/42",
			wantMethod: "GET",
			wantPath:   "/contact/42",
		},
		{
			name:         "update contact",
			method:       "PUT",
			path:         "/contacts/42",
			body:         `{"phone":"555-0100"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42",
			wantBodyFrag: `"555-0100"`,
		},
		{
			name:       "delete contact",
			method:     "DELETE",
			path:       "/contacts/42",
			wantMethod: "DELETE",
			wantPath:   "/contact/42",
		},
		{
			name:       "get tags",
			method:     "GET",
			path:       "/contacts/42/tags",
			wantMethod: "GET",
			wantPath:   "/contact/42/tags",
		},
		{
			name:         "add tags",
			method:       "POST",
			path:         "/contacts/42/tags",
			body:         `{"tags":["buyer","hot"]}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/tags",
			wantBodyFrag: `"buyer"`,
		},
		{
			name:         "remove tags",
			method:       "DELETE",
			path:         "/contacts/42/tags",
			body:         `{"names":["cold"]}`,
			wantMethod:   "DELETE",
			wantPath:     "/contact/42/tags",
			wantBodyFrag: `"cold"`,
		},
		{
			name:       "listing views",
			method:     "GET",
			path:       "/contacts/42/listing-views",
			wantMethod: "GET",
			wantPath:   "/contact/42/listingviews",
		},
		{
			name:       "market reports",
			method:     "GET",
			path:       "/contacts/42/market-reports",
			wantMethod: "GET",
			wantPath:   "/contact/42/marketreports",
		},
		{
			name:         "send email",
			method:       "POST",
			path:         "/contacts/42/email",
			body:         `{"subject":"Hi","message":"New listings"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/email",
			wantBodyFrag: `"New listings"`,
		},
		{
			name:         "send text",
			method:       "POST",
			path:         "/contacts/42/text",
			body:         `{"message":"Call me"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/text",
			wantBodyFrag: `"Call me"`,
		},
		{
			name:         "ask question",
			method:       "POST",
			path:         "/contacts/42/question",
			body:         `{"mls_id":"MLS1","question":"Still available?"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/question",
			wantBodyFrag: `"Still available?"`,
		},
		{
			name:         "request appointment",
			method:       "POST",
			path:         "/contacts/42/appointment",
			body:         `{"mls_id":"MLS1","question":"Tour?","date":"2026-09-01"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/appointment",
			wantBodyFrag: `"2026-09-01"`,
		},
		{
			name:       "list notes",
			method:     "GET",
			path:       "/contacts/42/notes",
			wantMethod: "GET",
			wantPath:   "/contact/42/notes",
		},
		{
			name:         "create note",
			method:       "POST",
			path:         "/contacts/42/notes",
			body:         `{"title":"Follow up"}`,
			wantMethod:   "POST",
			wantPath:     "/contact/42/action/note",
			wantBodyFrag: `"Follow up"`,
		},
		{
			name:       "get note",
			method:     "GET",
			path:       "/contacts/42/notes/7",
			wantMethod: "GET",
			wantPath:   "/contact/42/note/7",
		},
		{
			name:         "update note",
			method:       "PUT",
			path:         "/contacts/42/notes/7",
			body:         `{"details":"done"}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/action/note/7",
			wantBodyFrag: `"done"`,
		},
		{
			name:       "list calls",
			method:     "GET",
			path:       "/contacts/42/calls",
			wantMethod: "GET",
			wantPath:   "/contact/42/calls",
		},
		{
			name:         "log call",
			method:       "POST",
			path:         "/contacts/42/calls",
			body:         `{"result":1,"direction":"outbound"}`,
			wantMethod:   "POST",
			wantPath:     "/contact/42/action/call",
			wantBodyFrag: `"outbound"`,
		},
		{
			name:       "get call",
			method:     "GET",
			path:       "/contacts/42/calls/9",
			wantMethod: "GET",
			wantPath:   "/contact/42/call/9",
		},
		{
			name:         "update call",
			method:       "PUT",
			path:         "/contacts/42/calls/9",
			body:         `{"result":2}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/action/call/9",
			wantBodyFrag: `"result":2`,
		},
		{
			name:       "list search alerts",
			method:     "GET",
			path:       "/contacts/42/searchalerts",
			wantMethod: "GET",
			wantPath:   "/contact/42/searchalerts",
		},
		{
			name:         "create search alert",
			method:       "POST",
			path:         "/contacts/42/searchalerts",
			body:         `{"number":1,"areas":["Downtown"]}`,
			wantMethod:   "POST",
			wantPath:     "/contact/42/searchalert",
			wantBodyFrag: `"Downtown"`,
		},
		{
			name:         "update search alert",
			method:       "PUT",
			path:         "/contacts/42/searchalerts/2",
			body:         `{"beds":3}`,
			wantMethod:   "PUT",
			wantPath:     "/contact/42/searchalert/2",
			wantBodyFrag: `"beds":3`,
		},
		{
			name:       "delete search alert",
			method:     "DELETE",
			path:       "/contacts/42/searchalerts/1",
			wantMethod: "DELETE",
			wantPath:   "/contact/42/searchalert/1",
		},
		{
			name:       "send search alert",
			method:     "POST",
			path:       "/contacts/42/searchalerts/1/send",
			wantMethod: "PUT",
			wantPath:   "/contact/42/searchalert/1/send",
		},
		{
			name:       "recent search alert listings",
			method:     "GET",
			path:       "/contacts/42/searchalerts/2/recent",
			wantMethod: "GET",
			wantPath:   "/contact/42/searchalert/2/recent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newTestServer(t, http.StatusOK, `{"ok":true}`)
			handler := ContactsHandler(srv)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, tt.wantMethod, call.Method)
			assert.True(t, strings.HasSuffix(call.Path, tt.wantPath),
				"upstream path %q should end with %q", call.Path, tt.wantPath)
			if tt.wantBodyFrag != "" {
				assert.Contains(t, call.Body, tt.wantBodyFrag)
			}
		})
	}
}

func TestContactsHandlerListForwardsFilters(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `[]`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("GET", "/contacts?status=2&assigned_to=7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *calls, 1)
	query := (*calls)[0].Query
	assert.Contains(t, query, "status=2")
	assert.Contains(t, query, "assigned_to=7")
}

func TestContactsHandlerUpstreamError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"message":"Contact not found"}`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("GET", "/contacts/999", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Contact not found", resp.Error)
	assert.JSONEq(t, `{"message":"Contact not found"}`, string(resp.Details))
}

func TestContactsHandlerValidationShortCircuits(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("POST", "/contacts/42/calls",
		strings.NewReader(`{"result":9}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "1, 2, 3")
	assert.Empty(t, *calls, "invalid input must not reach the upstream")
}

func TestContactsHandlerInvalidSearchAlertNumber(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	t.Run("non-numeric path segment", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/contacts/42/searchalerts/abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, *calls)
	})

	t.Run("out of range number", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/contacts/42/searchalerts/3", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "1 or 2")
		assert.Empty(t, *calls)
	})
}

func TestContactsHandlerSearchAlertCreateRelaysUnknownFields(t *testing.T) {
	// Search alert payloads are open: fields the proxy does not enumerate
	// must reach the upstream.
	srv, calls := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("POST", "/contacts/42/searchalerts",
		strings.NewReader(`{"number":1,"min_sqft":1000,"property_type":"condo"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *calls, 1)
	body := (*calls)[0].Body
	assert.Contains(t, body, `"min_sqft":1000`)
	assert.Contains(t, body, `"property_type":"condo"`)
}

func TestContactsHandlerMalformedBody(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("POST", "/contacts", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
	assert.Empty(t, *calls)
}

func TestContactsHandlerMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	tests := []struct {
		method string
		path   string
	}{
		{"PATCH", "/contacts"},
		{"POST", "/contacts/42/listing-views"},
		{"GET", "/contacts/42/email"},
		{"DELETE", "/contacts/42/notes/7"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code,
			"%s %s", tt.method, tt.path)
	}
}

func TestContactsHandlerUnknownResource(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	handler := ContactsHandler(srv)

	req := httptest.NewRequest("GET", "/contacts/42/widgets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

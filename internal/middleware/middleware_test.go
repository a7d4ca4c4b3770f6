package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 5)
	handler := rl.Handler(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/contacts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 2)
	handler := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/contacts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	handler := rl.Handler(okHandler())

	first := httptest.NewRequest("GET", "/contacts", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same client is now exhausted.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client still has budget.
	other := httptest.NewRequest("GET", "/contacts", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterPrefersForwardedFor(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	handler := rl.Handler(okHandler())

	req := httptest.NewRequest("GET", "/contacts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client from a different socket is still the same bucket.
	req2 := httptest.NewRequest("GET", "/contacts", nil)
	req2.RemoteAddr = "10.0.0.9:5678"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiterForwardedForChain(t *testing.T) {
	// A chained X-Forwarded-For keys on the originating client, so the same
	// client arriving through different proxy hops shares one bucket.
	rl := NewRateLimiter(time.Minute, 1)
	handler := rl.Handler(okHandler())

	req := httptest.NewRequest("GET", "/contacts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req2 := httptest.NewRequest("GET", "/contacts", nil)
	req2.RemoteAddr = "10.0.0.2:5678"
	req2.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.9, 192.0.2.3")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClientIPForwardedForChain(t *testing.T) {
	req := httptest.NewRequest("GET", "/contacts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 198.51.100.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/contacts/42/notes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/contacts", "201"))
	assert.Equal(t, float64(1), count)

	// In-flight gauge returns to zero once the request finishes.
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/contacts", "/contacts"},
		{"/contacts/42/searchalerts/1/send", "/contacts"},
		{"/schedule-call", "/schedule-call"},
		{"/views", "/views"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/", "other"},
		{"/wp-admin", "other"},
		{"/.env", "other"},
		{"/contactsX", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, routeLabel(tt.path), tt.path)
	}
}

func TestMetricsHandlerBoundsUnknownRoutes(t *testing.T) {
	// Scanner traffic to arbitrary paths collapses into one label.
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	handler := m.Handler(okHandler())

	for _, path := range []string{"/wp-admin", "/phpmyadmin", "/.git/config"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "other", "200"))
	assert.Equal(t, float64(3), count)
}

func TestRequestLoggerLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Output: &buf,
		Level:  hclog.Debug,
	})

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/contacts/999", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "/contacts/999")
	assert.Contains(t, out, "status=404")
	assert.True(t, strings.Contains(out, "request_id="))
}

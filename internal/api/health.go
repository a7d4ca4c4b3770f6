package api

import (
	"net/http"

	"github.com/realforge/kvcore-go/internal/server"
)

// HealthHandler reports liveness of the proxy itself. It does not probe the
// upstream API.
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

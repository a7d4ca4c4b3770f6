package api

import (
	"net/http"

	"github.com/realforge/kvcore-go/internal/server"
)

// ScheduleCallHandler handles the /schedule-call route.
// Routes:
//
//	POST /schedule-call - Schedule a future call for a lead
func ScheduleCallHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}

		var payload map[string]any
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Misc.ScheduleCall(r.Context(), payload))
	})
}

// ViewsHandler handles the /views route.
// Routes:
//
//	POST /views - Record a listing view for a lead
func ViewsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}

		var payload map[string]any
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Misc.AddListingView(r.Context(), payload))
	})
}

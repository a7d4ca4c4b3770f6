package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/realforge/kvcore-go/internal/server"
	"github.com/realforge/kvcore-go/pkg/kvcore"
)

// ContactsHandler handles the contact routes and the resources nested under
// a contact.
// Routes:
//
//	GET    /contacts                                  - List contacts (query = filters)
//	POST   /contacts                                  - Create contact
//	GET    /contacts/:id                              - Get contact
//	PUT    /contacts/:id                              - Update contact
//	DELETE /contacts/:id                              - Delete contact
//	GET    /contacts/:id/tags                         - Get tags
//	POST   /contacts/:id/tags                         - Add tags
//	DELETE /contacts/:id/tags                         - Remove tags (dissociate only)
//	GET    /contacts/:id/listing-views                - Listings the contact viewed
//	GET    /contacts/:id/market-reports               - Market reports
//	POST   /contacts/:id/email                        - Send email
//	POST   /contacts/:id/text                         - Send text
//	POST   /contacts/:id/question                     - Ask listing question
//	POST   /contacts/:id/appointment                  - Request appointment
//	GET    /contacts/:id/notes[/:noteId]              - List/get notes
//	POST   /contacts/:id/notes                        - Create note
//	PUT    /contacts/:id/notes/:noteId                - Update note
//	GET    /contacts/:id/calls[/:callId]              - List/get calls
//	POST   /contacts/:id/calls                        - Log call
//	PUT    /contacts/:id/calls/:callId                - Update call
//	GET    /contacts/:id/searchalerts                 - List search alerts
//	POST   /contacts/:id/searchalerts                 - Create search alert
//	PUT    /contacts/:id/searchalerts/:number         - Update search alert
//	DELETE /contacts/:id/searchalerts/:number         - Delete search alert
//	POST   /contacts/:id/searchalerts/:number/send    - Send search alert now
//	GET    /contacts/:id/searchalerts/:number/recent  - Recently matched listings
func ContactsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/contacts")
		path = strings.TrimPrefix(path, "/")

		if path == "" {
			switch r.Method {
			case http.MethodGet:
				relay(w, srv)(srv.Client.Contacts.List(r.Context(), queryFilters(r)))
			case http.MethodPost:
				var payload map[string]any
				if err := decodeBody(r, &payload); err != nil {
					writeError(w, srv.Logger, err)
					return
				}
				relay(w, srv)(srv.Client.Contacts.Create(r.Context(), payload))
			default:
				methodNotAllowed(w)
			}
			return
		}

		parts := strings.Split(path, "/")
		contactID := parts[0]
		if contactID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "contact ID required"})
			return
		}

		if len(parts) == 1 {
			contactByID(w, r, srv, contactID)
			return
		}

		switch parts[1] {
		case "tags":
			contactTags(w, r, srv, contactID)
		case "listing-views":
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			relay(w, srv)(srv.Client.Contacts.GetListingViews(r.Context(), contactID))
		case "market-reports":
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			relay(w, srv)(srv.Client.Contacts.GetMarketReports(r.Context(), contactID))
		case "email":
			var in kvcore.EmailInput
			contactAction(w, r, srv, &in, func() (json.RawMessage, error) {
				return srv.Client.Contacts.SendEmail(r.Context(), contactID, in)
			})
		case "text":
			var in kvcore.TextInput
			contactAction(w, r, srv, &in, func() (json.RawMessage, error) {
				return srv.Client.Contacts.SendText(r.Context(), contactID, in)
			})
		case "question":
			var in kvcore.QuestionInput
			contactAction(w, r, srv, &in, func() (json.RawMessage, error) {
				return srv.Client.Contacts.AskQuestion(r.Context(), contactID, in)
			})
		case "appointment":
			var in kvcore.AppointmentInput
			contactAction(w, r, srv, &in, func() (json.RawMessage, error) {
				return srv.Client.Contacts.RequestAppointment(r.Context(), contactID, in)
			})
		case "notes":
			contactNotes(w, r, srv, contactID, parts[2:])
		case "calls":
			contactCalls(w, r, srv, contactID, parts[2:])
		case "searchalerts":
			contactSearchAlerts(w, r, srv, contactID, parts[2:])
		default:
			notFound(w)
		}
	})
}

// relay writes a client call result: the raw upstream payload on success,
// the error envelope otherwise.
func relay(w http.ResponseWriter, srv server.Server) func(payload []byte, err error) {
	return func(payload []byte, err error) {
		if err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relayPayload(w, payload)
	}
}

func contactByID(w http.ResponseWriter, r *http.Request, srv server.Server, contactID string) {
	switch r.Method {
	case http.MethodGet:
		relay(w, srv)(srv.Client.Contacts.Get(r.Context(), contactID))
	case http.MethodPut:
		var payload map[string]any
		if err := decodeBody(r, &payload); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Contacts.Update(r.Context(), contactID, payload))
	case http.MethodDelete:
		relay(w, srv)(srv.Client.Contacts.Delete(r.Context(), contactID))
	default:
		methodNotAllowed(w)
	}
}

func contactTags(w http.ResponseWriter, r *http.Request, srv server.Server, contactID string) {
	switch r.Method {
	case http.MethodGet:
		relay(w, srv)(srv.Client.Contacts.GetTags(r.Context(), contactID))
	case http.MethodPost:
		var body struct {
			Tags []string `json:"tags"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Contacts.AddTags(r.Context(), contactID, body.Tags))
	case http.MethodDelete:
		var body struct {
			Names []string `json:"names"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Contacts.RemoveTags(r.Context(), contactID, body.Names))
	default:
		methodNotAllowed(w)
	}
}

// contactAction decodes the body into in and runs the action. Used for the
// single-POST contact endpoints (email, text, question, appointment).
func contactAction(w http.ResponseWriter, r *http.Request, srv server.Server, in any, run func() (json.RawMessage, error)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := decodeBody(r, in); err != nil {
		writeError(w, srv.Logger, err)
		return
	}
	relay(w, srv)(run())
}

func contactNotes(w http.ResponseWriter, r *http.Request, srv server.Server, contactID string, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			relay(w, srv)(srv.Client.Notes.List(r.Context(), contactID))
		case http.MethodPost:
			var in kvcore.NoteInput
			if err := decodeBody(r, &in); err != nil {
				writeError(w, srv.Logger, err)
				return
			}
			relay(w, srv)(srv.Client.Notes.Create(r.Context(), contactID, in))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(rest) != 1 || rest[0] == "" {
		notFound(w)
		return
	}
	noteID := rest[0]

	switch r.Method {
	case http.MethodGet:
		relay(w, srv)(srv.Client.Notes.Get(r.Context(), contactID, noteID))
	case http.MethodPut:
		var in kvcore.NoteInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Notes.Update(r.Context(), contactID, noteID, in))
	default:
		methodNotAllowed(w)
	}
}

func contactCalls(w http.ResponseWriter, r *http.Request, srv server.Server, contactID string, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			relay(w, srv)(srv.Client.Calls.List(r.Context(), contactID))
		case http.MethodPost:
			var in kvcore.CallInput
			if err := decodeBody(r, &in); err != nil {
				writeError(w, srv.Logger, err)
				return
			}
			relay(w, srv)(srv.Client.Calls.Create(r.Context(), contactID, in))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(rest) != 1 || rest[0] == "" {
		notFound(w)
		return
	}
	callID := rest[0]

	switch r.Method {
	case http.MethodGet:
		relay(w, srv)(srv.Client.Calls.Get(r.Context(), contactID, callID))
	case http.MethodPut:
		var in kvcore.CallInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, srv.Logger, err)
			return
		}
		relay(w, srv)(srv.Client.Calls.Update(r.Context(), contactID, callID, in))
	default:
		methodNotAllowed(w)
	}
}

func contactSearchAlerts(w http.ResponseWriter, r *http.Request, srv server.Server, contactID string, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			relay(w, srv)(srv.Client.SearchAlerts.List(r.Context(), contactID))
		case http.MethodPost:
			var payload map[string]any
			if err := decodeBody(r, &payload); err != nil {
				writeError(w, srv.Logger, err)
				return
			}
			relay(w, srv)(srv.Client.SearchAlerts.Create(r.Context(), contactID, payload))
		default:
			methodNotAllowed(w)
		}
		return
	}

	number, err := strconv.Atoi(rest[0])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid search alert number"})
		return
	}

	if len(rest) == 1 {
		switch r.Method {
		case http.MethodPut:
			var payload map[string]any
			if err := decodeBody(r, &payload); err != nil {
				writeError(w, srv.Logger, err)
				return
			}
			relay(w, srv)(srv.Client.SearchAlerts.Update(r.Context(), contactID, number, payload))
		case http.MethodDelete:
			relay(w, srv)(srv.Client.SearchAlerts.Delete(r.Context(), contactID, number))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(rest) == 2 {
		switch rest[1] {
		case "send":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			relay(w, srv)(srv.Client.SearchAlerts.Send(r.Context(), contactID, number))
			return
		case "recent":
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			relay(w, srv)(srv.Client.SearchAlerts.GetRecent(r.Context(), contactID, number))
			return
		}
	}

	notFound(w)
}

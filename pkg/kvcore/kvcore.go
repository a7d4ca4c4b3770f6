// Package kvcore is a client for the KVCore CRM public REST API.
//
// The client is a thin pass-through: every operation maps 1:1 to one API
// round trip, payloads are relayed unchanged in both directions, and the
// only validation performed locally covers the enumerated values the API is
// known to reject (call results and directions, search alert numbers) plus
// a handful of required identifiers. Everything else is the API's contract,
// not this package's.
package kvcore

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Config holds configuration for the client.
type Config struct {
	// BaseURL is the API endpoint (default: DefaultBaseURL).
	BaseURL string

	// BearerToken is the static API credential. Required.
	BearerToken string

	// Timeout bounds each API round trip (default: DefaultTimeout).
	Timeout time.Duration

	// Debug enables request/response logging from the start. It can be
	// toggled later with EnableDebug/DisableDebug.
	Debug bool

	// Logger receives debug output (optional).
	Logger hclog.Logger
}

// Client is the entry point to the KVCore API. Each resource family is
// exposed as a named service sharing one underlying transport. A Client is
// safe for concurrent use; operations carry no ordering guarantee relative
// to each other.
type Client struct {
	Contacts     *ContactsService
	Notes        *NotesService
	Calls        *CallsService
	SearchAlerts *SearchAlertsService
	Misc         *MiscService

	tx *transport
}

// New creates a new KVCore API client. It fails if no bearer token is
// configured.
func New(cfg Config) (*Client, error) {
	tx, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		Contacts:     &ContactsService{tx: tx},
		Notes:        &NotesService{tx: tx},
		Calls:        &CallsService{tx: tx},
		SearchAlerts: &SearchAlertsService{tx: tx},
		Misc:         &MiscService{tx: tx},
		tx:           tx,
	}, nil
}

// EnableDebug turns on request/response logging. Takes effect on the next
// call; in-flight calls may log under the previous setting.
func (c *Client) EnableDebug() {
	c.tx.debug.Store(true)
}

// DisableDebug turns off request/response logging.
func (c *Client) DisableDebug() {
	c.tx.debug.Store(false)
}

// DebugEnabled reports whether request/response logging is on.
func (c *Client) DebugEnabled() bool {
	return c.tx.debug.Load()
}

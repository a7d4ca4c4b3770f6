package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/realforge/kvcore-go/internal/config"
	"github.com/realforge/kvcore-go/pkg/kvcore"
)

// Server holds the shared state the HTTP handlers need.
type Server struct {
	// Client is the upstream KVCore API client.
	Client *kvcore.Client

	// Config is the proxy configuration.
	Config *config.Config

	// Logger is the logger for the server.
	Logger hclog.Logger
}

// Package serve implements the command that runs the proxy server.
package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/mitchellh/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/realforge/kvcore-go/internal/api"
	"github.com/realforge/kvcore-go/internal/config"
	"github.com/realforge/kvcore-go/internal/middleware"
	"github.com/realforge/kvcore-go/internal/server"
	"github.com/realforge/kvcore-go/pkg/kvcore"
)

type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the KVCore proxy server"
}

func (c *Command) Help() string {
	return `Usage: kvcore-proxy serve [options]

  Run the proxy server in front of the KVCore API.

  Configuration is read from an optional HCL file and the environment;
  environment variables always win. A .env file in the working directory
  is loaded first if present.

Options:

  -config=<path>
    Path to an HCL configuration file.
`
}

func (c *Command) Run(args []string) int {
	f := flag.NewFlagSet("serve", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "", "path to an HCL configuration file")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	// Best effort; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}
	if err := cfg.Validate(); err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}

	client, err := kvcore.New(kvcore.Config{
		BaseURL:     cfg.BaseURL,
		BearerToken: cfg.BearerToken,
		Timeout:     cfg.Timeout(),
		Debug:       cfg.Debug,
		Logger:      c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating KVCore client: %v", err))
		return 1
	}

	srv := server.Server{
		Client: client,
		Config: cfg,
		Logger: c.Log,
	}

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)
	limiter := middleware.NewRateLimiter(cfg.RateLimitWindow(), cfg.RateLimit.MaxRequests)

	mux := http.NewServeMux()
	mux.Handle("/health", api.HealthHandler(srv))
	mux.Handle("/contacts", api.ContactsHandler(srv))
	mux.Handle("/contacts/", api.ContactsHandler(srv))
	mux.Handle("/schedule-call", api.ScheduleCallHandler(srv))
	mux.Handle("/views", api.ViewsHandler(srv))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	handler := middleware.RequestLogger(c.Log)(
		metrics.Handler(
			limiter.Handler(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		c.Log.Info("proxy server listening", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.UI.Error(fmt.Sprintf("server error: %v", err))
			return 1
		}
	case <-ctx.Done():
		c.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			c.UI.Error(fmt.Sprintf("error during shutdown: %v", err))
			return 1
		}
	}

	return 0
}

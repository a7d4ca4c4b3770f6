// Package config loads the proxy server configuration from an optional HCL
// file and the environment. Environment variables always win over file
// values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultPort                 = 8000
	DefaultTimeoutMillis        = 30000
	DefaultRateLimitWindowMS    = 60000
	DefaultRateLimitMaxRequests = 100
)

// Config is the proxy server configuration.
type Config struct {
	// BaseURL is the upstream KVCore API endpoint. Required.
	BaseURL string `hcl:"base_url,optional"`

	// BearerToken is the upstream API credential. Required.
	BearerToken string `hcl:"bearer_token,optional"`

	// Port is the listen port for the proxy (default 8000).
	Port int `hcl:"port,optional"`

	// TimeoutMillis bounds each upstream round trip (default 30000).
	TimeoutMillis int `hcl:"timeout_ms,optional"`

	// Debug enables upstream request/response logging.
	Debug bool `hcl:"debug,optional"`

	// RateLimit configures the per-client request limiter.
	RateLimit *RateLimitConfig `hcl:"rate_limit,block"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	// WindowMillis is the measurement window (default 60000).
	WindowMillis int `hcl:"window_ms,optional"`

	// MaxRequests is the number of requests allowed per window per client
	// (default 100).
	MaxRequests int `hcl:"max_requests,optional"`
}

// Load reads configuration from the HCL file at path (skipped when path is
// empty), applies environment overrides, then fills in defaults.
//
// Recognized environment variables: KVCORE_BASE_URL, KVCORE_BEARER_TOKEN,
// KVCORE_DEBUG, PORT, RATE_LIMIT_WINDOW_MS, RATE_LIMIT_MAX_REQUESTS.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.TimeoutMillis == 0 {
		cfg.TimeoutMillis = DefaultTimeoutMillis
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = &RateLimitConfig{}
	}
	if cfg.RateLimit.WindowMillis == 0 {
		cfg.RateLimit.WindowMillis = DefaultRateLimitWindowMS
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMaxRequests
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KVCORE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("KVCORE_BEARER_TOKEN"); v != "" {
		c.BearerToken = v
	}
	if v := os.Getenv("KVCORE_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid KVCORE_DEBUG value %q: %w", v, err)
		}
		c.Debug = debug
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		c.Port = port
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW_MS"); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW_MS value %q: %w", v, err)
		}
		if c.RateLimit == nil {
			c.RateLimit = &RateLimitConfig{}
		}
		c.RateLimit.WindowMillis = window
	}

	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_MAX_REQUESTS value %q: %w", v, err)
		}
		if c.RateLimit == nil {
			c.RateLimit = &RateLimitConfig{}
		}
		c.RateLimit.MaxRequests = max
	}

	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BaseURL == "" {
		result = multierror.Append(result,
			fmt.Errorf("base URL is required (set KVCORE_BASE_URL)"))
	}
	if c.BearerToken == "" {
		result = multierror.Append(result,
			fmt.Errorf("bearer token is required (set KVCORE_BEARER_TOKEN)"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		result = multierror.Append(result,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.TimeoutMillis <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("timeout must be positive, got %dms", c.TimeoutMillis))
	}
	if c.RateLimit != nil {
		if c.RateLimit.WindowMillis <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("rate limit window must be positive, got %dms", c.RateLimit.WindowMillis))
		}
		if c.RateLimit.MaxRequests <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("rate limit max requests must be positive, got %d", c.RateLimit.MaxRequests))
		}
	}

	return result.ErrorOrNil()
}

// Timeout returns the upstream round trip bound as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

// RateLimitWindow returns the limiter window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMillis) * time.Millisecond
}

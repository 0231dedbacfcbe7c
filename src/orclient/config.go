package orclient

import (
	"log/slog"
	"time"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = 30 * time.Second
)

// Config carries the client's connection settings. APIKey and Model are
// required; everything else has a sensible default.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// RetryCount is the number of retries after the first attempt for
	// transient failures (network errors, 429, 5xx). 4xx responses
	// other than 429 are never retried.
	RetryCount int
	// RetryBaseDelay is the first backoff step; each retry doubles it,
	// with ±25% jitter.
	RetryBaseDelay time.Duration

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.RetryCount == 0 {
		c.RetryCount = 3
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the search service.
// Variables are prefixed with JOBSCOUT_, e.g. JOBSCOUT_DATABASE_URL.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" default:""`

	// Empty base URLs select the public guest endpoints.
	ListingBaseURL string `envconfig:"LISTING_BASE_URL" default:""`
	DetailBaseURL  string `envconfig:"DETAIL_BASE_URL" default:""`

	// FreshnessField selects which stored timestamp counts toward the
	// freshness window: "last_updated" or "date_posted".
	FreshnessField string `envconfig:"FRESHNESS_FIELD" default:"last_updated"`

	// DetailConcurrency bounds concurrent detail fetches per batch.
	DetailConcurrency int `envconfig:"DETAIL_CONCURRENCY" default:"6"`
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("JOBSCOUT", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.DetailConcurrency < 1 {
		return nil, fmt.Errorf("JOBSCOUT_DETAIL_CONCURRENCY must be positive, got %d", cfg.DetailConcurrency)
	}
	return &cfg, nil
}

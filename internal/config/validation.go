package config

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/law-makers/quotes/internal/extract"
	urlutil "github.com/law-makers/quotes/internal/utils/url"
)

func validate(c *Config) error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if err := urlutil.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	for _, p := range c.Proxies {
		if err := urlutil.ValidateProxyURL(p); err != nil {
			return fmt.Errorf("proxy %q: %w", p, err)
		}
	}
	if !slices.Contains(extract.Strategies(), c.Strategy) {
		return fmt.Errorf("unknown strategy %q (available: %v)", c.Strategy, extract.Strategies())
	}
	if c.Parallelism < 0 || c.Parallelism > DefaultMaxParallelism {
		return fmt.Errorf("parallelism must be between 0 and %d", DefaultMaxParallelism)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be > 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be > 0")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff must be >= 0")
	}
	if c.FeedPath == "" {
		return fmt.Errorf("feed path is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Quotes/1.0 (https://github.com/law-makers/quotes)"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 10
	DefaultParallelism    = 0 // pick from the CPU count
	DefaultMaxParallelism = 64
	DefaultRetryAttempts  = 3
	DefaultRetryBackoff   = 500 * time.Millisecond
	DefaultBaseURL        = "http://quotes.toscrape.com/"
	DefaultFeedPath       = "quotes.json"
	DefaultDBPath         = "quote.db"
	DefaultStrategy       = "xpath"
	DefaultInspireTag     = "inspirational"

	// EnvPrefix prefixes every environment variable, e.g. QUOTES_DB
	EnvPrefix = "QUOTES"
)

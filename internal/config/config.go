package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxies     []string
	BaseURL     string
	Strategy    string
	Parallelism int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Retries
	RetryAttempts int
	RetryBackoff  time.Duration

	// Files
	FeedPath string
	DBPath   string

	// ConfigFile is the file values were read from, empty when none was used
	ConfigFile string
}

// Config keys, also the names used in config files
const (
	keyLogLevel       = "log_level"
	keyJSONLog        = "json"
	keyHTTPTimeout    = "timeout"
	keyUserAgent      = "user_agent"
	keyProxies        = "proxies"
	keyBaseURL        = "base_url"
	keyStrategy       = "strategy"
	keyParallelism    = "parallelism"
	keyRateLimitRPS   = "rate_rps"
	keyRateLimitBurst = "rate_burst"
	keyRetryAttempts  = "retry_attempts"
	keyRetryBackoff   = "retry_backoff"
	keyFeedPath       = "feed"
	keyDBPath         = "db"
)

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"json":        keyJSONLog,
	"timeout":     keyHTTPTimeout,
	"user-agent":  keyUserAgent,
	"proxy":       keyProxies,
	"base-url":    keyBaseURL,
	"strategy":    keyStrategy,
	"parallelism": keyParallelism,
	"rate":        keyRateLimitRPS,
	"burst":       keyRateLimitBurst,
	"retries":     keyRetryAttempts,
	"feed":        keyFeedPath,
	"db":          keyDBPath,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetDefault(keyJSONLog, DefaultJSONLog)
	v.SetDefault(keyHTTPTimeout, DefaultHTTPTimeout)
	v.SetDefault(keyUserAgent, DefaultUserAgent)
	v.SetDefault(keyProxies, []string{})
	v.SetDefault(keyBaseURL, DefaultBaseURL)
	v.SetDefault(keyStrategy, DefaultStrategy)
	v.SetDefault(keyParallelism, DefaultParallelism)
	v.SetDefault(keyRateLimitRPS, DefaultRateLimitRPS)
	v.SetDefault(keyRateLimitBurst, DefaultRateLimitBurst)
	v.SetDefault(keyRetryAttempts, DefaultRetryAttempts)
	v.SetDefault(keyRetryBackoff, DefaultRetryBackoff)
	v.SetDefault(keyFeedPath, DefaultFeedPath)
	v.SetDefault(keyDBPath, DefaultDBPath)
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("quotes")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:       v.GetString(keyLogLevel),
		JSONLog:        v.GetBool(keyJSONLog),
		HTTPTimeout:    v.GetDuration(keyHTTPTimeout),
		UserAgent:      v.GetString(keyUserAgent),
		Proxies:        splitList(v.GetStringSlice(keyProxies)),
		BaseURL:        v.GetString(keyBaseURL),
		Strategy:       strings.ToLower(v.GetString(keyStrategy)),
		Parallelism:    v.GetInt(keyParallelism),
		RateLimitRPS:   v.GetFloat64(keyRateLimitRPS),
		RateLimitBurst: v.GetInt(keyRateLimitBurst),
		RetryAttempts:  v.GetInt(keyRetryAttempts),
		RetryBackoff:   v.GetDuration(keyRetryBackoff),
		FeedPath:       v.GetString(keyFeedPath),
		DBPath:         v.GetString(keyDBPath),
		ConfigFile:     v.ConfigFileUsed(),
	}

	// -v and -q win over any configured level
	if cmd != nil {
		if flagTrue(cmd, "verbose") {
			cfg.LogLevel = "debug"
		}
		if flagTrue(cmd, "quiet") {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func flagTrue(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Value.String() == "true"
}

// splitList flattens comma separated entries and drops blanks
func splitList(values []string) []string {
	out := []string{}
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/extract"
	"github.com/law-makers/quotes/internal/proxy"
	"github.com/law-makers/quotes/internal/ratelimit"
	"github.com/law-makers/quotes/internal/retry"
	"github.com/law-makers/quotes/internal/spider"
	"github.com/law-makers/quotes/internal/store"
	"github.com/law-makers/quotes/pkg/models"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command run and shared by the command.
// Use Close() to release idle connections on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.ProxyPool
	Transport   *http.Transport
	Retry       retry.Config
	startTime   time.Time
}

// CrawlOptions are the per-run settings of a crawl that do not come from config
type CrawlOptions struct {
	Strategy string
	Tag      string
	MaxPages int
	Headers  map[string]string
	OnRecord func(models.Record)
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger from the config
//   - Creates the per-host rate limiter (or none when the rate is 0)
//   - Parses the proxy pool
//   - Builds the shared HTTP transport
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg.LogLevel, cfg.JSONLog, os.Stderr)
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("config_file", cfg.ConfigFile).
		Msg("Logger initialized")

	var limiter ratelimit.RateLimiter = ratelimit.Unlimited{}
	if cfg.RateLimitRPS > 0 {
		limiter = ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	pool, err := proxy.NewProxyPool(cfg.Proxies)
	if err != nil {
		return nil, err
	}
	if pool.Len() > 0 {
		logger.Debug().Int("proxies", pool.Len()).Msg("Proxy pool initialized")
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.HTTPTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts
	retryCfg.InitialBackoff = cfg.RetryBackoff

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: limiter,
		Proxies:     pool,
		Transport:   transport,
		Retry:       retryCfg,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// SetupLogging configures the global zerolog logger and returns it.
// Info messages are only shown at debug level so command output stays clean.
func SetupLogging(level string, jsonLog bool, out io.Writer) zerolog.Logger {
	logLevel := zerolog.WarnLevel
	switch level {
	case "debug", "trace":
		logLevel = zerolog.DebugLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer = out
	if !jsonLog {
		logWriter = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return log.Logger
}

// NewSpider builds a spider for the configured site with the given strategy.
// An empty strategy uses the configured one.
func (a *Application) NewSpider(opts CrawlOptions) (*spider.Spider, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = a.Config.Strategy
	}
	ex, err := extract.New(strategy)
	if err != nil {
		return nil, err
	}

	return spider.New(spider.Options{
		Extractor:   ex,
		BaseURL:     a.Config.BaseURL,
		Tag:         opts.Tag,
		UserAgent:   a.Config.UserAgent,
		Timeout:     a.Config.HTTPTimeout,
		Parallelism: a.Config.Parallelism,
		MaxPages:    opts.MaxPages,
		Headers:     opts.Headers,
		Retry:       a.Retry,
		Limiter:     a.RateLimiter,
		Proxies:     a.Proxies,
		Transport:   a.Transport,
		OnRecord:    opts.OnRecord,
	})
}

// OpenStore opens the configured database; fresh recreates it from scratch.
// Without fresh the database must already exist.
func (a *Application) OpenStore(fresh bool) (*store.Store, error) {
	s, err := store.Open(a.Config.DBPath, store.Options{Fresh: fresh, Existing: !fresh})
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Str("path", a.Config.DBPath).Bool("fresh", fresh).Msg("Store opened")
	return s, nil
}

// Close releases idle connections held by the shared transport
func (a *Application) Close() error {
	if a.Transport != nil {
		a.Transport.CloseIdleConnections()
	}
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

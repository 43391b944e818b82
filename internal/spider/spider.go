// Package spider drives a crawl of the quotes site with colly and feeds every
// fetched page to an extract.Extractor.
package spider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/quotes/internal/extract"
	"github.com/law-makers/quotes/internal/proxy"
	"github.com/law-makers/quotes/internal/ratelimit"
	"github.com/law-makers/quotes/internal/reqctx"
	"github.com/law-makers/quotes/internal/retry"
	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/law-makers/quotes/pkg/models"
)

const (
	kindListing = "listing"
	kindAuthor  = "author"

	attemptKey = "attempt"

	defaultTimeout = 30 * time.Second
)

// Options configures a Spider
type Options struct {
	Name        string            // spider name used in logs, defaults to "toscrape-<strategy>"
	Extractor   extract.Extractor // selector strategy
	BaseURL     string            // site root, e.g. http://quotes.toscrape.com/
	Tag         string            // restrict the crawl to one tag
	UserAgent   string
	Timeout     time.Duration // per request
	Parallelism int           // concurrent requests, <= 0 picks OptimalParallelism
	MaxPages    int           // listing pages to visit, <= 0 means all
	Headers     map[string]string
	Retry       retry.Config
	Limiter     ratelimit.RateLimiter
	Proxies     *proxy.ProxyPool
	Transport   *http.Transport
	OnRecord    func(models.Record) // called once per emitted record, in emission order
}

// Spider crawls listing pages, follows the "next" links and visits every
// linked author page. Scheduling, duplicate filtering and concurrency are left to colly.
type Spider struct {
	opts     Options
	startURL string
}

// New validates opts and builds a Spider
func New(opts Options) (*Spider, error) {
	if opts.Extractor == nil {
		return nil, ErrNoExtractor
	}
	if err := urlutil.ValidateURL(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if opts.Name == "" {
		opts.Name = "toscrape-" + opts.Extractor.Name()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = OptimalParallelism()
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.DefaultConfig()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}

	segments := []string{opts.Extractor.StartPath()}
	if tag := strings.TrimSpace(opts.Tag); tag != "" {
		segments = append(segments, "tag", tag)
	}
	startURL, err := urlutil.JoinPath(opts.BaseURL, segments...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	return &Spider{opts: opts, startURL: startURL}, nil
}

// Name returns the spider name
func (s *Spider) Name() string {
	return s.opts.Name
}

// StartURL returns the first listing page the spider visits
func (s *Spider) StartURL() string {
	return s.startURL
}

// run holds the state of a single Run call
type run struct {
	spider    *Spider
	ctx       context.Context
	logger    zerolog.Logger
	listing   *colly.Collector
	authors   *colly.Collector
	mu        sync.Mutex
	records   []models.Record
	stats     models.Stats
	followed  int
	startErr  error
	closeIdle func()
}

// Run crawls the site and returns every emitted record in emission order.
// Pages that fail after retries are logged and counted in Stats.Failed;
// only a failed start page fails the run.
func (s *Spider) Run(ctx context.Context) ([]models.Record, models.Stats, error) {
	if reqctx.FromContext(ctx).Spider == "" {
		ctx = reqctx.WithRun(ctx, s.opts.Name)
	}
	rc := reqctx.FromContext(ctx)

	rn := &run{
		spider:   s,
		ctx:      ctx,
		logger:   log.With().Str("spider", s.opts.Name).Str("run_id", rc.RunID).Logger(),
		followed: 1,
	}
	if err := rn.setupCollectors(); err != nil {
		return nil, rn.stats, err
	}

	rn.logger.Info().
		Str("start_url", s.startURL).
		Str("strategy", s.opts.Extractor.Name()).
		Int("parallelism", s.opts.Parallelism).
		Msg("Crawl started")

	if err := rn.listing.Visit(s.startURL); err != nil {
		return nil, rn.stats, reqctx.Wrap(ctx, fmt.Errorf("%w: %w", ErrStartPageFailed, err))
	}
	if rn.closeIdle != nil {
		defer rn.closeIdle()
	}
	rn.listing.Wait()
	// Every author page is enqueued by a listing callback, so the author
	// collector is drained only after the listing collector.
	rn.authors.Wait()

	rn.mu.Lock()
	defer rn.mu.Unlock()

	rn.logger.Info().
		Int("listing_pages", rn.stats.ListingPages).
		Int("author_pages", rn.stats.AuthorPages).
		Int("quotes", rn.stats.Quotes).
		Int("authors", rn.stats.Authors).
		Int("failed", rn.stats.Failed).
		Dur("elapsed", rc.Elapsed()).
		Msg("Crawl finished")

	if err := ctx.Err(); err != nil {
		return rn.records, rn.stats, reqctx.Wrap(ctx, err)
	}
	if rn.startErr != nil {
		return nil, rn.stats, reqctx.Wrap(ctx, fmt.Errorf("%w: %w", ErrStartPageFailed, rn.startErr))
	}
	return rn.records, rn.stats, nil
}

func (rn *run) setupCollectors() error {
	opts := rn.spider.opts

	collectorOpts := []colly.CollectorOption{
		colly.StdlibContext(rn.ctx),
		colly.Async(true),
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}
	if host := urlutil.Hostname(rn.spider.startURL); host != "" {
		collectorOpts = append(collectorOpts, colly.AllowedDomains(host))
	}

	listing := colly.NewCollector(collectorOpts...)
	if opts.Proxies != nil && opts.Proxies.Len() > 0 {
		// Proxy health is tracked by the transport: the request colly sees
		// is not the one the client sends once a timeout is set.
		proxied := opts.Proxies.Transport(opts.Transport)
		rn.closeIdle = proxied.CloseIdleConnections
		listing.WithTransport(proxied)
	} else if opts.Transport != nil {
		listing.WithTransport(opts.Transport)
	}
	if err := listing.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: opts.Parallelism}); err != nil {
		return fmt.Errorf("failed to set parallelism: %w", err)
	}
	listing.SetRequestTimeout(opts.Timeout)

	// The clone shares transport, limits and the visited-URL store
	authors := listing.Clone()

	rn.listing = listing
	rn.authors = authors

	rn.setupCallbacks(listing, kindListing, rn.handleListing)
	rn.setupCallbacks(authors, kindAuthor, rn.handleAuthor)
	return nil
}

func (rn *run) setupCallbacks(c *colly.Collector, kind string, handle func(*colly.Response)) {
	opts := rn.spider.opts

	c.OnRequest(func(r *colly.Request) {
		if err := opts.Limiter.Wait(rn.ctx, r.URL.String()); err != nil {
			r.Abort()
			return
		}
		for key, value := range opts.Headers {
			r.Headers.Set(key, value)
		}
		rn.logger.Debug().Str("url", r.URL.String()).Str("kind", kind).Msg("Visiting URL")
	})

	c.OnResponse(func(r *colly.Response) {
		rn.logger.Debug().
			Str("url", r.Request.URL.String()).
			Int("status", r.StatusCode).
			Int("bytes", len(r.Body)).
			Msg("Response received")
		handle(r)
	})

	c.OnError(func(r *colly.Response, err error) {
		rn.handleError(kind, r, err)
	})
}

func (rn *run) handleListing(r *colly.Response) {
	pageURL := r.Request.URL.String()

	listing, err := rn.spider.opts.Extractor.ParseListing(pageURL, r.Body)
	if err != nil {
		rn.fail(&CrawlError{Code: ErrCodeParse, URL: pageURL, Kind: kindListing, Status: r.StatusCode, Underlying: err})
		return
	}

	rn.mu.Lock()
	rn.stats.ListingPages++
	for _, q := range listing.Quotes {
		rn.emitLocked(models.QuoteRecord(q))
	}
	followNext := listing.NextPage != "" && rn.allowNextPageLocked()
	rn.mu.Unlock()

	for _, link := range listing.AuthorLinks {
		rn.visit(rn.authors, link, kindAuthor)
	}
	if followNext {
		rn.visit(rn.listing, listing.NextPage, kindListing)
	}
}

func (rn *run) handleAuthor(r *colly.Response) {
	pageURL := r.Request.URL.String()

	author, err := rn.spider.opts.Extractor.ParseAuthor(pageURL, r.Body)
	if err != nil {
		rn.fail(&CrawlError{Code: ErrCodeParse, URL: pageURL, Kind: kindAuthor, Status: r.StatusCode, Underlying: err})
		return
	}

	rn.mu.Lock()
	rn.stats.AuthorPages++
	rn.emitLocked(models.AuthorRecord(*author))
	rn.mu.Unlock()
}

// handleError retries retryable failures with backoff and records the rest
func (rn *run) handleError(kind string, r *colly.Response, err error) {
	opts := rn.spider.opts
	req := r.Request
	pageURL := req.URL.String()

	code := ErrCodeNetwork
	if r.StatusCode >= http.StatusBadRequest {
		code = ErrCodeHTTP
		err = retry.NewHTTPError(r.StatusCode, "", err.Error())
	}

	attempt, _ := req.Ctx.GetAny(attemptKey).(int)
	if rn.ctx.Err() == nil && attempt+1 < opts.Retry.MaxAttempts && opts.Retry.ShouldRetry(err) {
		backoff := opts.Retry.Backoff(attempt)
		rn.logger.Debug().
			Str("url", pageURL).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")

		req.Ctx.Put(attemptKey, attempt+1)
		if sleepErr := retry.Sleep(rn.ctx, backoff); sleepErr == nil {
			retryErr := req.Retry()
			if retryErr == nil {
				return
			}
			err = errors.Join(err, retryErr)
		}
	}
	if rn.ctx.Err() != nil {
		code = ErrCodeAborted
	}

	rn.fail(&CrawlError{
		Code:       code,
		URL:        pageURL,
		Kind:       kind,
		Status:     r.StatusCode,
		Attempts:   attempt + 1,
		Underlying: err,
	})
}

func (rn *run) fail(cerr *CrawlError) {
	rn.mu.Lock()
	rn.stats.Failed++
	if cerr.URL == rn.spider.startURL && rn.startErr == nil {
		rn.startErr = cerr
	}
	rn.mu.Unlock()

	rn.logger.Warn().
		Str("url", cerr.URL).
		Str("kind", cerr.Kind).
		Str("code", string(cerr.Code)).
		Int("status", cerr.Status).
		Int("attempts", cerr.Attempts).
		Err(cerr.Underlying).
		Msg("Page failed")
}

func (rn *run) visit(c *colly.Collector, link, kind string) {
	if err := c.Visit(link); err != nil {
		// Already visited and off-site links land here; neither is a failure
		rn.logger.Debug().Str("url", link).Str("kind", kind).Err(err).Msg("Link not followed")
	}
}

func (rn *run) allowNextPageLocked() bool {
	maxPages := rn.spider.opts.MaxPages
	if maxPages > 0 && rn.followed >= maxPages {
		return false
	}
	rn.followed++
	return true
}

func (rn *run) emitLocked(rec models.Record) {
	switch rec.Type {
	case models.TypeQuote:
		rn.stats.Quotes++
	case models.TypeAuthor:
		rn.stats.Authors++
	}
	rn.records = append(rn.records, rec)
	if hook := rn.spider.opts.OnRecord; hook != nil {
		hook(rec)
	}
}

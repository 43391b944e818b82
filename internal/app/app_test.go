package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/extract"
	"github.com/law-makers/quotes/internal/ratelimit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.DBPath = filepath.Join(t.TempDir(), "quote.db")
	return cfg
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.RateLimiter.(*ratelimit.DomainLimiter); !ok {
		t.Errorf("expected a domain limiter, got %T", a.RateLimiter)
	}
	if a.Retry.MaxAttempts != cfg.RetryAttempts || a.Retry.InitialBackoff != cfg.RetryBackoff {
		t.Errorf("retry config not applied: %+v", a.Retry)
	}
	if a.Proxies.Len() != 0 {
		t.Errorf("expected no proxies")
	}
}

func TestNew_Unlimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 0
	cfg.Proxies = []string{"http://p1:8080"}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := a.RateLimiter.(ratelimit.Unlimited); !ok {
		t.Errorf("expected no limiter, got %T", a.RateLimiter)
	}
	if a.Proxies.Len() != 1 {
		t.Errorf("expected one proxy, got %d", a.Proxies.Len())
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewSpider(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	s, err := a.NewSpider(CrawlOptions{Tag: "love"})
	if err != nil {
		t.Fatalf("NewSpider: %v", err)
	}
	if s.Name() != "toscrape-xpath" {
		t.Errorf("expected configured xpath strategy, got %s", s.Name())
	}
	if s.StartURL() != "http://quotes.toscrape.com/tag/love/" {
		t.Errorf("unexpected start URL %s", s.StartURL())
	}

	s, err = a.NewSpider(CrawlOptions{Strategy: "script"})
	if err != nil {
		t.Fatalf("NewSpider: %v", err)
	}
	if s.StartURL() != "http://quotes.toscrape.com/js/" {
		t.Errorf("unexpected start URL %s", s.StartURL())
	}

	if _, err := a.NewSpider(CrawlOptions{Strategy: "regex"}); err == nil {
		t.Error("expected error for unknown strategy")
	} else if !strings.Contains(err.Error(), extract.ErrUnknownStrategy.Error()) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	s, err := a.OpenStore(true)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()
	if s.Path() != a.Config.DBPath {
		t.Errorf("expected %s, got %s", a.Config.DBPath, s.Path())
	}
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	SetupLogging("info", true, &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("url", "http://quotes.toscrape.com/").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be hidden at the default level: %s", out)
	}
	if !strings.Contains(out, `"url":"http://quotes.toscrape.com/"`) {
		t.Errorf("expected JSON warn line: %s", out)
	}

	buf.Reset()
	SetupLogging("debug", true, &buf)
	log.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug line: %s", buf.String())
	}
}

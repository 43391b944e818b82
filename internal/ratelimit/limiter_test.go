package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestDomainLimiter_BurstThenThrottle(t *testing.T) {
	dl := NewDomainLimiter(1, 2)

	if !dl.Allow("http://quotes.toscrape.com/page/1/") {
		t.Fatal("Expected first request to be allowed")
	}
	if !dl.Allow("http://quotes.toscrape.com/page/2/") {
		t.Fatal("Expected second request to be allowed within burst")
	}
	if dl.Allow("http://quotes.toscrape.com/page/3/") {
		t.Error("Expected third request to be throttled")
	}

	// A different host has its own bucket
	if !dl.Allow("http://example.com/") {
		t.Error("Expected other host to be allowed")
	}
	if dl.Hosts() != 2 {
		t.Errorf("Expected 2 hosts, got %d", dl.Hosts())
	}
}

func TestDomainLimiter_WaitHonorsContext(t *testing.T) {
	dl := NewDomainLimiter(0.01, 1)
	url := "http://quotes.toscrape.com/"

	if err := dl.Wait(context.Background(), url); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := dl.Wait(ctx, url); err == nil {
		t.Error("Expected Wait to fail once the context expires")
	}
}

func TestDomainLimiter_SetLimit(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	dl.SetLimit("quotes.toscrape.com", 1000, 100)

	for i := 0; i < 50; i++ {
		if !dl.Allow("http://quotes.toscrape.com/") {
			t.Fatalf("request %d throttled after raising the limit", i)
		}
	}
}

func TestUnlimited(t *testing.T) {
	var l RateLimiter = Unlimited{}
	if !l.Allow("anything") {
		t.Error("Unlimited should always allow")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx, "http://example.com"); err == nil {
		t.Error("Expected cancelled context error")
	}
}

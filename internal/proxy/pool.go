package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	urlutil "github.com/law-makers/quotes/internal/utils/url"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// ProxyPool rotates over a list of proxies, skipping the ones that failed recently
type ProxyPool struct {
	proxies  []*url.URL
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewProxyPool parses the proxy URLs and creates a pool. Blank entries are ignored.
func NewProxyPool(proxies []string) (*ProxyPool, error) {
	p := &ProxyPool{
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if err := urlutil.ValidateProxyURL(raw); err != nil {
			return nil, fmt.Errorf("proxy %q: %w", raw, err)
		}
		u, _ := url.Parse(raw)
		p.proxies = append(p.proxies, u)
	}
	return p, nil
}

// Len returns the number of configured proxies
func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// GetNext returns the next healthy proxy. When every proxy is cooling down the
// next one in order is returned anyway; nil means the pool is empty.
func (p *ProxyPool) GetNext() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}

	for range p.proxies {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failTime, failed := p.failed[candidate.String()]
		if !failed {
			return candidate
		}
		if p.now().Sub(failTime) >= p.cooldown {
			delete(p.failed, candidate.String())
			return candidate
		}
	}

	candidate := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return candidate
}

type proxyKey struct{}

// Transport routes every request through the next healthy proxy of the pool.
// A request that fails before any response marks its proxy failed; a response
// of any status marks it healthy. base is cloned, so its own idle connections
// are left alone.
type Transport struct {
	pool *ProxyPool
	base *http.Transport
}

// Transport wraps base with proxy rotation. A nil base clones http.DefaultTransport.
func (p *ProxyPool) Transport(base *http.Transport) *Transport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	t := base.Clone()
	t.Proxy = func(r *http.Request) (*url.URL, error) {
		u, _ := r.Context().Value(proxyKey{}).(*url.URL)
		return u, nil
	}
	return &Transport{pool: p, base: t}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	u := t.pool.GetNext()
	if u == nil {
		return t.base.RoundTrip(req)
	}

	resp, err := t.base.RoundTrip(req.WithContext(context.WithValue(req.Context(), proxyKey{}, u)))
	if err != nil {
		// A canceled caller says nothing about the proxy
		if !errors.Is(err, context.Canceled) {
			t.pool.MarkFailed(u.String())
		}
		return nil, err
	}
	t.pool.MarkHealthy(u.String())
	return resp, nil
}

// CloseIdleConnections closes the idle connections of the proxied transport
func (t *Transport) CloseIdleConnections() {
	t.base.CloseIdleConnections()
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *ProxyPool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears the failure status of a proxy
func (p *ProxyPool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

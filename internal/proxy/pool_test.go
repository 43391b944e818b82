package proxy

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestProxyPool(t *testing.T) {
	pool, err := NewProxyPool([]string{"http://p1:8080", "http://p2:8080", " ", "http://p3:8080"})
	if err != nil {
		t.Fatalf("NewProxyPool failed: %v", err)
	}
	if pool.Len() != 3 {
		t.Fatalf("Expected 3 proxies, got %d", pool.Len())
	}

	next := func() string { return pool.GetNext().String() }

	// Test rotation
	for _, want := range []string{"http://p1:8080", "http://p2:8080", "http://p3:8080", "http://p1:8080"} {
		if p := next(); p != want {
			t.Errorf("Expected %s, got %s", want, p)
		}
	}

	// Should skip p2
	pool.MarkFailed("http://p2:8080")
	if p := next(); p != "http://p3:8080" {
		t.Errorf("Expected p3 (skipping p2), got %s", p)
	}
	if p := next(); p != "http://p1:8080" {
		t.Errorf("Expected p1, got %s", p)
	}
	if p := next(); p != "http://p3:8080" {
		t.Errorf("Expected p3, got %s", p)
	}

	// Should include p2 again
	pool.MarkHealthy("http://p2:8080")
	if p := next(); p != "http://p1:8080" {
		t.Errorf("Expected p1, got %s", p)
	}
	if p := next(); p != "http://p2:8080" {
		t.Errorf("Expected p2, got %s", p)
	}
}

func TestProxyPool_CooldownExpires(t *testing.T) {
	pool, err := NewProxyPool([]string{"http://p1:8080", "http://p2:8080"})
	if err != nil {
		t.Fatalf("NewProxyPool failed: %v", err)
	}
	now := time.Now()
	pool.now = func() time.Time { return now }

	pool.MarkFailed("http://p1:8080")
	if p := pool.GetNext().String(); p != "http://p2:8080" {
		t.Errorf("Expected p2 while p1 cools down, got %s", p)
	}

	now = now.Add(DefaultCooldown)
	if p := pool.GetNext().String(); p != "http://p1:8080" {
		t.Errorf("Expected p1 after cooldown, got %s", p)
	}
}

func TestProxyPool_AllFailed(t *testing.T) {
	pool, _ := NewProxyPool([]string{"http://p1:8080"})
	pool.MarkFailed("http://p1:8080")
	if p := pool.GetNext(); p == nil || p.String() != "http://p1:8080" {
		t.Errorf("Expected fallback to p1, got %v", p)
	}
}

func TestProxyPool_Empty(t *testing.T) {
	pool, err := NewProxyPool(nil)
	if err != nil {
		t.Fatalf("NewProxyPool failed: %v", err)
	}
	if u := pool.GetNext(); u != nil {
		t.Errorf("Expected nil proxy, got %v", u)
	}

	// An empty pool sends requests directly
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("direct"))
	}))
	defer server.Close()

	client := &http.Client{Transport: pool.Transport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "direct" {
		t.Errorf("Expected direct response, got %q", body)
	}
}

// closedAddr returns the address of a port nothing listens on
func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestTransport_MarksDeadProxyFailed(t *testing.T) {
	// A plain server answers absolute-URI requests like a forward proxy would
	var proxied int32
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxied, 1)
		if r.URL.Host != "quotes.example" {
			t.Errorf("Expected proxied request for quotes.example, got %q", r.URL.Host)
		}
		w.Write([]byte("via proxy"))
	}))
	defer good.Close()

	dead := "http://" + closedAddr(t)
	pool, err := NewProxyPool([]string{dead, good.URL})
	if err != nil {
		t.Fatalf("NewProxyPool failed: %v", err)
	}

	client := &http.Client{Transport: pool.Transport(nil), Timeout: 5 * time.Second}

	if _, err := client.Get("http://quotes.example/"); err == nil {
		t.Fatal("Expected an error through the dead proxy")
	}
	for i := 0; i < 2; i++ {
		resp, err := client.Get("http://quotes.example/")
		if err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
	if n := atomic.LoadInt32(&proxied); n != 2 {
		t.Errorf("Expected 2 requests through the working proxy, got %d", n)
	}

	for i := 0; i < 2; i++ {
		if p := pool.GetNext().String(); p != good.URL {
			t.Errorf("Expected %s while the dead proxy cools down, got %s", good.URL, p)
		}
	}
}

func TestNewProxyPool_Invalid(t *testing.T) {
	if _, err := NewProxyPool([]string{"not a proxy"}); err == nil {
		t.Error("Expected error for invalid proxy URL")
	}
}

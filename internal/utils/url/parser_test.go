package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://quotes.toscrape.com/",
		"https://example.com/path",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestValidateProxyURL(t *testing.T) {
	for _, u := range []string{"http://127.0.0.1:8080", "socks5://proxy.local:1080"} {
		if err := ValidateProxyURL(u); err != nil {
			t.Fatalf("expected valid proxy %s, got error: %v", u, err)
		}
	}
	for _, u := range []string{"ftp://proxy", "localhost:8080", "http://"} {
		if err := ValidateProxyURL(u); err == nil {
			t.Fatalf("expected invalid proxy %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, href, want string
	}{
		{"http://quotes.toscrape.com/page/1/", "/page/2/", "http://quotes.toscrape.com/page/2/"},
		{"http://quotes.toscrape.com/", "/author/Albert-Einstein", "http://quotes.toscrape.com/author/Albert-Einstein"},
		{"http://quotes.toscrape.com/js/", "page/2/", "http://quotes.toscrape.com/js/page/2/"},
		{"http://quotes.toscrape.com/", "https://www.goodreads.com/quotes", "https://www.goodreads.com/quotes"},
		{"http://quotes.toscrape.com/", "  ", ""},
	}
	for _, c := range cases {
		if got := ResolveURL(c.base, c.href); got != c.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", c.base, c.href, got, c.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		base     string
		segments []string
		want     string
	}{
		{"http://quotes.toscrape.com/", nil, "http://quotes.toscrape.com/"},
		{"http://quotes.toscrape.com/", []string{"tag", "humor"}, "http://quotes.toscrape.com/tag/humor/"},
		{"http://quotes.toscrape.com", []string{"js", ""}, "http://quotes.toscrape.com/js/"},
		{"http://quotes.toscrape.com/", []string{"js/", "tag", "love"}, "http://quotes.toscrape.com/js/tag/love/"},
	}
	for _, c := range cases {
		got, err := JoinPath(c.base, c.segments...)
		if err != nil {
			t.Fatalf("JoinPath(%q): %v", c.base, err)
		}
		if got != c.want {
			t.Errorf("JoinPath(%q, %v) = %q, want %q", c.base, c.segments, got, c.want)
		}
	}
}

func TestHostname(t *testing.T) {
	if h := Hostname("http://127.0.0.1:8080/page/1/"); h != "127.0.0.1" {
		t.Errorf("Expected 127.0.0.1, got %s", h)
	}
	if h := Hostname("://bad"); h != "" {
		t.Errorf("Expected empty hostname, got %s", h)
	}
}

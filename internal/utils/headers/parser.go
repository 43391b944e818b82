package headers

import (
	"net/http"
	"strings"
)

// ParseHeaders converts "Key: Value" strings into a map keyed by the canonical
// header name. Entries without a colon or with an empty key are dropped.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		m[http.CanonicalHeaderKey(key)] = strings.TrimSpace(value)
	}
	return m
}

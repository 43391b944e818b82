package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"user-agent: QuotesBot", "Accept: text/html", "BadHeader", ": empty", "X-Trace: a:b"}
	out := ParseHeaders(in)
	expected := map[string]string{"User-Agent": "QuotesBot", "Accept": "text/html", "X-Trace": "a:b"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

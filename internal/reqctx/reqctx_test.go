package reqctx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestWithRun(t *testing.T) {
	ctx := WithRun(context.Background(), "toscrape-css")
	rc := FromContext(ctx)

	if len(rc.RunID) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", rc.RunID)
	}
	if rc.Spider != "toscrape-css" {
		t.Errorf("Expected spider toscrape-css, got %q", rc.Spider)
	}
	if other := FromContext(WithRun(context.Background(), "x")); other.RunID == rc.RunID {
		t.Error("Expected distinct run ids")
	}
}

func TestFromContext_Missing(t *testing.T) {
	if rc := FromContext(context.Background()); rc.RunID != "unknown" {
		t.Errorf("Expected placeholder run id, got %q", rc.RunID)
	}
}

func TestWrap(t *testing.T) {
	ctx := WithRun(context.Background(), "toscrape-xpath")
	base := errors.New("boom")

	err := Wrap(ctx, base)
	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to match base")
	}
	if !strings.Contains(err.Error(), FromContext(ctx).RunID) {
		t.Errorf("Expected run id in %q", err.Error())
	}
	if Wrap(ctx, nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

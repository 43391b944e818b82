package ui

import "testing"

func TestPaint(t *testing.T) {
	defer func(p bool) { Plain = p }(Plain)

	Plain = false
	if got := Success("ok"); got != ColorGreen+"ok"+ColorReset {
		t.Errorf("unexpected styled output %q", got)
	}

	Plain = true
	for _, fn := range []func(string) string{Bold, Success, Info, Error} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("expected unstyled output, got %q", got)
		}
	}
}

// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Config defines retry behavior with exponential backoff
type Config struct {
	MaxAttempts          int           // Total attempts including the first one
	InitialBackoff       time.Duration // Backoff before the second attempt
	MaxBackoff           time.Duration // Upper bound for a single backoff
	Multiplier           float64       // Backoff multiplier per attempt
	RetryableStatusCodes []int         // HTTP status codes that trigger a retry
}

// DefaultConfig returns the retry configuration used by the spider
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		RetryableStatusCodes: []int{
			http.StatusRequestTimeout,      // 408
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		},
	}
}

// Backoff returns the delay after the given zero-based attempt
func (c Config) Backoff(attempt int) time.Duration {
	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	backoff := float64(c.InitialBackoff) * math.Pow(multiplier, float64(attempt))
	if c.MaxBackoff > 0 && backoff > float64(c.MaxBackoff) {
		backoff = float64(c.MaxBackoff)
	}
	return time.Duration(backoff)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ShouldRetry reports whether err is worth another attempt
func (c Config) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return c.RetryableStatus(sc.GetStatusCode())
	}

	// Timeouts, resets and other transport failures are retried
	return true
}

// RetryableStatus reports whether an HTTP status code should be retried
func (c Config) RetryableStatus(code int) bool {
	for _, retryable := range c.RetryableStatusCodes {
		if code == retryable {
			return true
		}
	}
	return false
}

// StatusCoder is implemented by errors that carry an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

// HTTPError represents a non-success HTTP response
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// NewHTTPError creates an HTTPError; an empty status falls back to the standard text
func NewHTTPError(statusCode int, status string, message string) HTTPError {
	if status == "" {
		status = http.StatusText(statusCode)
	}
	return HTTPError{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
	}
}

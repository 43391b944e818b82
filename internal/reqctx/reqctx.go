package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type key int

const runKey key = 0

// RunContext identifies one crawl or load run in logs and errors
type RunContext struct {
	RunID     string
	Spider    string
	StartTime time.Time
}

// WithRun attaches a fresh RunContext for the named spider to ctx
func WithRun(ctx context.Context, spider string) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		Spider:    spider,
		StartTime: time.Now(),
	})
}

// FromContext returns the RunContext stored in ctx, or a placeholder
func FromContext(ctx context.Context) *RunContext {
	if ctx != nil {
		if rc, ok := ctx.Value(runKey).(*RunContext); ok {
			return rc
		}
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Elapsed returns the time since the run started
func (rc *RunContext) Elapsed() time.Duration {
	return time.Since(rc.StartTime)
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error with the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[run %s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// Wrap attaches the run id from ctx to err; nil stays nil
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: FromContext(ctx).RunID,
		Err:   err,
	}
}

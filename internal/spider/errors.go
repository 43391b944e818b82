package spider

import (
	"errors"
	"fmt"
)

// Common spider errors
var (
	ErrStartPageFailed = errors.New("start page could not be fetched")
	ErrNoExtractor     = errors.New("spider requires an extractor")
	ErrInvalidBaseURL  = errors.New("invalid base URL")
)

// ErrorCode classifies a failed page
type ErrorCode string

const (
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	ErrCodeHTTP    ErrorCode = "HTTP_ERROR"
	ErrCodeParse   ErrorCode = "PARSE_ERROR"
	ErrCodeAborted ErrorCode = "ABORTED"
)

// CrawlError describes why a single page produced no records
type CrawlError struct {
	Code       ErrorCode
	URL        string
	Kind       string // "listing" or "author"
	Status     int
	Attempts   int
	Underlying error
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	msg := fmt.Sprintf("%s: %s page %s", e.Code, e.Kind, e.URL)
	if e.Status > 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Underlying
}

// Is matches another CrawlError by code, or the underlying error
func (e *CrawlError) Is(target error) bool {
	if t, ok := target.(*CrawlError); ok {
		return e.Code == t.Code
	}
	return false
}

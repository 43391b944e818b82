// Package extract pulls quote and author records out of quotes.toscrape.com pages.
//
// Every strategy understands the same two page kinds: listing pages (a list of
// quotes plus a "next" link) and author pages (a single author profile).
package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/law-makers/quotes/pkg/models"
)

var (
	ErrUnknownStrategy  = errors.New("unknown extraction strategy")
	ErrNoAuthorDetails  = errors.New("author details not found")
	ErrParseDocument    = errors.New("failed to parse document")
	ErrScriptEvaluation = errors.New("failed to evaluate page script")
)

// Listing is what a listing page yields
type Listing struct {
	Quotes      []models.Quote
	AuthorLinks []string // absolute author page URLs, one per quote that links one
	NextPage    string   // absolute URL, empty on the last page
}

// Extractor is implemented by each selector strategy
type Extractor interface {
	// Name returns the strategy name ("css", "xpath", "script")
	Name() string

	// ParseListing extracts quotes and follow links from a listing page
	ParseListing(pageURL string, body []byte) (*Listing, error)

	// ParseAuthor extracts the author profile from an author page
	ParseAuthor(pageURL string, body []byte) (*models.Author, error)

	// StartPath is the path prefix of the site section this strategy reads
	StartPath() string
}

var registry = map[string]func() Extractor{
	"css":    func() Extractor { return NewCSS() },
	"xpath":  func() Extractor { return NewXPath() },
	"script": func() Extractor { return NewScript(DefaultScriptTimeout) },
}

// New returns the extractor registered under name
func New(name string) (Extractor, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStrategy, name, strings.Join(Strategies(), ", "))
	}
	return factory(), nil
}

// Strategies lists the registered strategy names in sorted order
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Birthplace derives a birthplace from a location string ("in Ulm, Germany")
// by taking its last whitespace-delimited token.
func Birthplace(location string) string {
	fields := strings.Fields(location)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// cleanDescription strips surrounding spaces and newlines only
func cleanDescription(s string) string {
	return strings.Trim(s, " \n")
}

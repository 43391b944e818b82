// Package loader turns a feed into rows of the quote store.
package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/quotes/internal/reqctx"
	"github.com/law-makers/quotes/internal/store"
	"github.com/law-makers/quotes/pkg/models"
)

// UnknownAuthorID is stored as author_id for quotes whose author has no profile
const UnknownAuthorID int64 = -1

// quoteMarks are stripped from both ends of a quote's text. The site's
// typographic marks are part of the stored text.
const quoteMarks = "\""

// Store is the part of store.Store the loader writes to
type Store interface {
	CreateSchema(ctx context.Context) error
	InsertAuthors(ctx context.Context, authors []models.Author) error
	AuthorIDs(ctx context.Context) (map[string]int64, error)
	InsertQuotes(ctx context.Context, quotes []store.QuoteRow) error
	InsertTags(ctx context.Context, tags []store.TagRow) error
	InsertTaggedQuotes(ctx context.Context, rows []store.TaggedQuoteRow) error
}

// Progress is advanced by the number of quotes once they are inserted;
// *progressbar.ProgressBar satisfies it
type Progress interface {
	Add(n int) error
}

// Summary reports what a load wrote
type Summary struct {
	Authors          int `json:"authors"`
	Quotes           int `json:"quotes"`
	Tags             int `json:"tags"`
	TaggedQuotes     int `json:"tagged_quotes"`
	UnmatchedAuthors int `json:"unmatched_authors"`
	Ignored          int `json:"ignored"`
}

// Batch is the feed split by record type with tag ids assigned
type Batch struct {
	Authors []models.Author
	Quotes  []models.Quote
	Tags    []store.TagRow
	TagIDs  map[string]int64
	Ignored int
}

// Plan partitions records and assigns tag ids by sorted distinct tag text
func Plan(records []models.Record) Batch {
	b := Batch{TagIDs: make(map[string]int64)}
	seen := make(map[string]struct{})

	for _, rec := range records {
		switch {
		case rec.Type == models.TypeQuote && rec.Quote != nil:
			b.Quotes = append(b.Quotes, *rec.Quote)
			for _, tag := range rec.Quote.Tags {
				seen[tag] = struct{}{}
			}
		case rec.Type == models.TypeAuthor && rec.Author != nil:
			b.Authors = append(b.Authors, *rec.Author)
		default:
			b.Ignored++
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	b.Tags = make([]store.TagRow, len(tags))
	for i, tag := range tags {
		b.Tags[i] = store.TagRow{ID: int64(i), Tag: tag}
		b.TagIDs[tag] = int64(i)
	}
	return b
}

// Rows builds quote and tagged_quote rows. The quote id is the position in
// b.Quotes; authors are resolved by exact name against authorIDs.
func (b Batch) Rows(authorIDs map[string]int64) (quotes []store.QuoteRow, tagged []store.TaggedQuoteRow, unmatched []string) {
	quotes = make([]store.QuoteRow, len(b.Quotes))
	for i, q := range b.Quotes {
		id := int64(i)
		authorID, ok := authorIDs[q.Author]
		if !ok {
			authorID = UnknownAuthorID
			unmatched = append(unmatched, q.Author)
		}
		quotes[i] = store.QuoteRow{ID: id, AuthorID: authorID, Text: CleanQuote(q.Text)}

		for _, tag := range q.Tags {
			tagged = append(tagged, store.TaggedQuoteRow{TagID: b.TagIDs[tag], QuoteID: id})
		}
	}
	return quotes, tagged, unmatched
}

// CleanQuote strips surrounding ASCII double quotes from a quote's text
func CleanQuote(text string) string {
	return strings.Trim(text, quoteMarks)
}

// Load writes records into s: authors first, then quotes, tags and the
// tag links. progress may be nil.
func Load(ctx context.Context, s Store, records []models.Record, progress Progress) (Summary, error) {
	logger := log.With().Str("run_id", reqctx.FromContext(ctx).RunID).Logger()

	batch := Plan(records)
	if batch.Ignored > 0 {
		logger.Warn().Int("records", batch.Ignored).Msg("Ignoring records of unknown type")
	}

	if err := s.CreateSchema(ctx); err != nil {
		return Summary{}, err
	}
	if err := s.InsertAuthors(ctx, batch.Authors); err != nil {
		return Summary{}, fmt.Errorf("load authors: %w", err)
	}
	authorIDs, err := s.AuthorIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load authors: %w", err)
	}

	quotes, tagged, unmatched := batch.Rows(authorIDs)
	for _, name := range unmatched {
		logger.Warn().Str("author", name).Int64("author_id", UnknownAuthorID).Msg("Quote author has no profile")
	}

	if err := s.InsertQuotes(ctx, quotes); err != nil {
		return Summary{}, fmt.Errorf("load quotes: %w", err)
	}
	if progress != nil {
		if err := progress.Add(len(quotes)); err != nil {
			logger.Debug().Err(err).Msg("Progress update failed")
		}
	}
	if err := s.InsertTags(ctx, batch.Tags); err != nil {
		return Summary{}, fmt.Errorf("load tags: %w", err)
	}
	if err := s.InsertTaggedQuotes(ctx, tagged); err != nil {
		return Summary{}, fmt.Errorf("load tagged quotes: %w", err)
	}

	summary := Summary{
		Authors:          len(batch.Authors),
		Quotes:           len(quotes),
		Tags:             len(batch.Tags),
		TaggedQuotes:     len(tagged),
		UnmatchedAuthors: len(unmatched),
		Ignored:          batch.Ignored,
	}
	logger.Info().
		Int("authors", summary.Authors).
		Int("quotes", summary.Quotes).
		Int("tags", summary.Tags).
		Int("tagged_quotes", summary.TaggedQuotes).
		Int("unmatched_authors", summary.UnmatchedAuthors).
		Msg("Feed loaded")
	return summary, nil
}

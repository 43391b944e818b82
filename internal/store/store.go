// Package store keeps loaded quotes in a SQLite database with the
// authors / quotes / tags / tagged_quotes schema.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/law-makers/quotes/pkg/models"
)

// ErrNotFound is returned when a query matches no row
var ErrNotFound = errors.New("not found")

// tagSeparator joins tags inside group_concat (ASCII unit separator)
const tagSeparator = "\x1f"

// Options controls how Open prepares the database file
type Options struct {
	Fresh    bool // delete the database file before opening it
	Existing bool // fail with ErrNotFound instead of creating a missing file
}

// QuoteRow is one row of the quotes table
type QuoteRow struct {
	ID       int64
	AuthorID int64
	Text     string
}

// TagRow is one row of the tags table
type TagRow struct {
	ID  int64
	Tag string
}

// TaggedQuoteRow links a tag to a quote
type TaggedQuoteRow struct {
	TagID   int64
	QuoteID int64
}

// Counts holds the number of rows per table
type Counts struct {
	Authors      int `json:"authors"`
	Quotes       int `json:"quotes"`
	Tags         int `json:"tags"`
	TaggedQuotes int `json:"tagged_quotes"`
}

// Store wraps the SQLite database
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and with Fresh, recreates) the database at path
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	if opts.Fresh {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove old database: %w", err)
		}
		log.Debug().Str("path", path).Msg("Removed old database")
	} else if opts.Existing {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: database %s (run load first)", ErrNotFound, path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the four tables if they do not exist
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// InsertAuthors inserts authors in order; auth_id is assigned by SQLite
func (s *Store) InsertAuthors(ctx context.Context, authors []models.Author) error {
	return s.insertBatch(ctx, "authors", insertAuthor, len(authors), func(stmt *sql.Stmt, i int) error {
		a := authors[i]
		_, err := stmt.ExecContext(ctx, a.Name, a.Birthday, a.Birthplace, a.Description)
		return err
	})
}

// InsertQuotes inserts quotes with their explicit ids
func (s *Store) InsertQuotes(ctx context.Context, quotes []QuoteRow) error {
	return s.insertBatch(ctx, "quotes", insertQuote, len(quotes), func(stmt *sql.Stmt, i int) error {
		q := quotes[i]
		_, err := stmt.ExecContext(ctx, q.ID, q.AuthorID, q.Text)
		return err
	})
}

// InsertTags inserts tags with their explicit ids
func (s *Store) InsertTags(ctx context.Context, tags []TagRow) error {
	return s.insertBatch(ctx, "tags", insertTag, len(tags), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, tags[i].ID, tags[i].Tag)
		return err
	})
}

// InsertTaggedQuotes inserts tag/quote links; tag_q_id is assigned by SQLite
func (s *Store) InsertTaggedQuotes(ctx context.Context, rows []TaggedQuoteRow) error {
	return s.insertBatch(ctx, "tagged_quotes", insertTaggedQuote, len(rows), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, rows[i].TagID, rows[i].QuoteID)
		return err
	})
}

// insertBatch runs exec for every row index inside one transaction
func (s *Store) insertBatch(ctx context.Context, table, query string, n int, exec func(*sql.Stmt, int) error) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s insert: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("failed to insert into %s (row %d): %w", table, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s insert: %w", table, err)
	}

	log.Debug().Str("table", table).Int("rows", n).Msg("Rows inserted")
	return nil
}

// AuthorIDs maps author names to auth_id. When a name occurs more than once
// the row inserted last wins.
func (s *Store) AuthorIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, selectAuthorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read author ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

// QuotesByTag returns the text of quotes carrying tag, ordered by quote id.
// limit <= 0 returns all of them.
func (s *Store) QuotesByTag(ctx context.Context, tag string, limit int) ([]string, error) {
	query := selectQuotesByTag
	args := []any{tag}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by tag: %w", err)
	}
	defer rows.Close()

	var quotes []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, text)
	}
	return quotes, rows.Err()
}

// FirstQuoteByTag returns the first quote carrying tag, or ErrNotFound
func (s *Store) FirstQuoteByTag(ctx context.Context, tag string) (string, error) {
	quotes, err := s.QuotesByTag(ctx, tag, 1)
	if err != nil {
		return "", err
	}
	if len(quotes) == 0 {
		return "", fmt.Errorf("%w: no quote tagged %q", ErrNotFound, tag)
	}
	return quotes[0], nil
}

// Quotes returns every stored quote with its author name and tags.
// Quotes of unknown authors have an empty Author.
func (s *Store) Quotes(ctx context.Context) ([]models.QuoteView, error) {
	rows, err := s.db.QueryContext(ctx, selectQuoteViews)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var views []models.QuoteView
	for rows.Next() {
		var (
			v    models.QuoteView
			tags string
		)
		if err := rows.Scan(&v.ID, &v.Text, &v.Author, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		v.Tags = []string{}
		if tags != "" {
			v.Tags = strings.Split(tags, tagSeparator)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Counts returns the number of rows in each table
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dst   *int
	}{
		{"authors", &c.Authors},
		{"quotes", &c.Quotes},
		{"tags", &c.Tags},
		{"tagged_quotes", &c.TaggedQuotes},
	}
	for _, t := range targets {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(t.dst); err != nil {
			return Counts{}, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
	}
	return c, nil
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/quotes/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quote.db"), Options{Fresh: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateSchema(context.Background()))
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.InsertAuthors(ctx, []models.Author{
		{Name: "Albert Einstein", Birthday: "March 14, 1879", Birthplace: "Germany", Description: "Physicist."},
		{Name: "Jane Austen", Birthday: "December 16, 1775", Birthplace: "Kingdom", Description: "Novelist."},
	}))
	require.NoError(t, s.InsertTags(ctx, []TagRow{
		{ID: 0, Tag: "inspirational"},
		{ID: 1, Tag: "life"},
		{ID: 2, Tag: "love"},
	}))
	require.NoError(t, s.InsertQuotes(ctx, []QuoteRow{
		{ID: 0, AuthorID: 1, Text: "Life is like riding a bicycle."},
		{ID: 1, AuthorID: 2, Text: "The person, be it gentleman or lady..."},
		{ID: 2, AuthorID: -1, Text: "Anonymous and inspired."},
	}))
	require.NoError(t, s.InsertTaggedQuotes(ctx, []TaggedQuoteRow{
		{TagID: 1, QuoteID: 0},
		{TagID: 0, QuoteID: 0},
		{TagID: 2, QuoteID: 1},
		{TagID: 0, QuoteID: 2},
	}))
}

func TestOpen_FreshRemovesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0644))

	s, err := Open(path, Options{Fresh: true})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.CreateSchema(context.Background()))
	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
	assert.Equal(t, path, s.Path())
}

func TestOpen_ExistingDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.db")

	_, err := Open(path, Options{Existing: true})
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, path)

	s, err := Open(path, Options{Fresh: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, Options{Existing: true})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("", Options{})
	assert.Error(t, err)
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.CreateSchema(context.Background()))
}

func TestAuthorIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seed(t, s)

	ids, err := s.AuthorIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Albert Einstein": 1, "Jane Austen": 2}, ids)

	// a duplicate name maps to the row inserted last
	require.NoError(t, s.InsertAuthors(ctx, []models.Author{{Name: "Albert Einstein"}}))
	ids, err = s.AuthorIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ids["Albert Einstein"])
}

func TestQuotesByTag(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seed(t, s)

	quotes, err := s.QuotesByTag(ctx, "inspirational", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Life is like riding a bicycle.", "Anonymous and inspired."}, quotes)

	quotes, err = s.QuotesByTag(ctx, "inspirational", 1)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)

	first, err := s.FirstQuoteByTag(ctx, "love")
	require.NoError(t, err)
	assert.Equal(t, "The person, be it gentleman or lady...", first)

	_, err = s.FirstQuoteByTag(ctx, "humor")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuotes_View(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seed(t, s)

	views, err := s.Quotes(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, models.QuoteView{
		ID:     0,
		Text:   "Life is like riding a bicycle.",
		Author: "Albert Einstein",
		Tags:   []string{"life", "inspirational"},
	}, views[0])
	assert.Equal(t, "", views[2].Author, "unknown author")
	assert.Equal(t, []string{"inspirational"}, views[2].Tags)
}

func TestQuotes_NoTags(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.InsertQuotes(ctx, []QuoteRow{{ID: 0, AuthorID: -1, Text: "Bare."}}))

	views, err := s.Quotes(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, []string{}, views[0].Tags)
}

func TestCounts(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Authors: 2, Quotes: 3, Tags: 3, TaggedQuotes: 4}, counts)
}

func TestInsertQuotes_DuplicateIDRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.InsertQuotes(ctx, []QuoteRow{
		{ID: 0, AuthorID: 1, Text: "first"},
		{ID: 0, AuthorID: 1, Text: "second"},
	})
	require.Error(t, err)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Quotes)
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	assert.NoError(t, s.InsertAuthors(ctx, nil))
	assert.NoError(t, s.InsertQuotes(ctx, nil))
	assert.NoError(t, s.InsertTags(ctx, nil))
	assert.NoError(t, s.InsertTaggedQuotes(ctx, nil))
}

package feed

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/quotes/pkg/models"
)

func sampleRecords() []models.Record {
	return []models.Record{
		models.QuoteRecord(models.Quote{
			Text:   "“Try not to become a man of success.”",
			Author: "Albert Einstein",
			Tags:   []string{"adulthood", "success", "value"},
		}),
		models.AuthorRecord(models.Author{
			Name:        "Albert Einstein",
			Birthday:    "March 14, 1879",
			Birthplace:  "Germany",
			Description: "In 1879, Albert Einstein was born in Ulm.",
		}),
		models.QuoteRecord(models.Quote{Text: "“No tags here.”", Author: "Nobody"}),
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "feed.json")
	records := sampleRecords()

	require.NoError(t, Write(path, records))
	assert.True(t, Exists(path))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, *records[0].Quote, *got[0].Quote)
	assert.Equal(t, *records[1].Author, *got[1].Author)
	assert.Empty(t, got[2].Quote.Tags)
}

func TestWrite_OneRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, Write(path, sampleRecords()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[", lines[0])
	assert.Equal(t, "]", lines[4])
	assert.True(t, strings.HasPrefix(lines[1], `{"type":"quote","data":{`))
	assert.True(t, strings.HasPrefix(lines[2], `{"type":"author","data":{`))
	assert.Contains(t, lines[2], `"country":"Germany"`)
	assert.Contains(t, lines[3], `"tags":[]`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestWrite_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, Write(path, nil))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrFeedNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, Exists(filepath.Join(dir, "missing.json")))
	assert.False(t, Exists(dir))

	cases := map[string]string{
		"truncated": `[{"type":"quote","data":{"text":"x"`,
		"object":    `{"type":"quote"}`,
		"null":      `null`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Read(path)
			assert.ErrorIs(t, err, ErrMalformedFeed)
		})
	}
}

func TestRead_UnknownTypeIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	body := `[{"type":"quote","data":{"text":"a","author":"b","tags":["x"]}},{"type":"page","data":{"url":"/"}}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RecordType("page"), got[1].Type)
	assert.Nil(t, got[1].Quote)
	assert.Nil(t, got[1].Author)
}

// Package feed reads and writes the JSON feed produced by a crawl: a single
// JSON array of {"type": ..., "data": {...}} records.
package feed

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/quotes/pkg/models"
)

var (
	ErrFeedNotFound  = errors.New("feed not found")
	ErrMalformedFeed = errors.New("malformed feed")
)

// Write stores records at path as a JSON array with one record per line.
// The array is written to a temporary file in the same directory and renamed
// into place, so readers never observe a partial feed.
func Write(path string, records []models.Record) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp feed: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err = w.WriteString("["); err != nil {
		return err
	}
	for i, rec := range records {
		line, merr := json.Marshal(rec)
		if merr != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, merr)
		}
		sep := ",\n"
		if i == 0 {
			sep = "\n"
		}
		if _, err = w.WriteString(sep); err != nil {
			return err
		}
		if _, err = w.Write(line); err != nil {
			return err
		}
	}
	if _, err = w.WriteString("\n]\n"); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move feed into place: %w", err)
	}

	log.Debug().Str("path", path).Int("records", len(records)).Msg("Feed written")
	return nil
}

// Read loads every record of the feed at path
func Read(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFeedNotFound, err)
		}
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFeed, path, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON array", ErrMalformedFeed, path)
	}
	return records, nil
}

// Exists reports whether a feed file is present at path
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

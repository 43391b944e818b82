package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/quotes/pkg/models"
)

// ErrUnknownFormat is returned for an export format Save does not support
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported export formats
var Formats = []string{"json", "csv", "md", "html"}

// FormatFromPath guesses the export format from a file extension
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".md", ".markdown":
		return "md"
	case ".html", ".htm":
		return "html"
	default:
		return "json"
	}
}

// CheckFormat returns ErrUnknownFormat for a format Save does not support
func CheckFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "csv", "md", "markdown", "html":
		return nil
	}
	return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

// Save exports quotes to path in the given format
func Save(format string, quotes []models.QuoteView, siteURL, path string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "json":
		return SaveJSON(quotes, path)
	case "csv":
		return SaveCSV(quotes, path)
	case "md", "markdown":
		return SaveMarkdown(quotes, siteURL, path)
	default:
		return SaveHTML(quotes, siteURL, path)
	}
}

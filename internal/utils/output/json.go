package output

import (
	"encoding/json"
	"os"

	"github.com/law-makers/quotes/pkg/models"
)

// SaveJSON writes the quotes as an indented JSON array to filepath
func SaveJSON(quotes []models.QuoteView, filepath string) error {
	if quotes == nil {
		quotes = []models.QuoteView{}
	}
	content, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, append(content, '\n'), 0644)
}

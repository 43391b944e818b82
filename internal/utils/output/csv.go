package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/law-makers/quotes/pkg/models"
)

// csvHeader is the column order of a CSV export
var csvHeader = []string{"id", "quote", "author", "tags"}

// SaveCSV writes one row per quote; tags are joined with a space
func SaveCSV(quotes []models.QuoteView, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, q := range quotes {
		row := []string{strconv.FormatInt(q.ID, 10), q.Text, q.Author, strings.Join(q.Tags, " ")}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

package output

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/law-makers/quotes/pkg/models"
)

// QuotesTable renders the quotes as an HTML table. When siteURL is set,
// author names link to their relative /author/<slug> profile path.
func QuotesTable(quotes []models.QuoteView, siteURL string) string {
	var b strings.Builder
	b.WriteString("<table>\n<thead><tr><th>ID</th><th>Quote</th><th>Author</th><th>Tags</th></tr></thead>\n<tbody>\n")
	for _, q := range quotes {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			q.ID,
			html.EscapeString(q.Text),
			authorCell(q.Author, siteURL),
			html.EscapeString(strings.Join(q.Tags, ", ")),
		)
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

func authorCell(name, siteURL string) string {
	if name == "" || siteURL == "" {
		return html.EscapeString(name)
	}
	slug := strings.Join(strings.Fields(strings.NewReplacer(".", " ", "'", " ").Replace(name)), "-")
	return fmt.Sprintf(`<a href="/author/%s">%s</a>`, html.EscapeString(slug), html.EscapeString(name))
}

// SaveHTML writes the quotes table as a standalone HTML document.
// Relative author links resolve against siteURL through a <base> element.
func SaveHTML(quotes []models.QuoteView, siteURL, filepath string) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Quotes</title>")
	if siteURL != "" {
		fmt.Fprintf(&b, `<base href="%s">`, html.EscapeString(siteURL))
	}
	b.WriteString("</head><body>\n")
	b.WriteString(QuotesTable(quotes, siteURL))
	b.WriteString("</body></html>\n")
	return os.WriteFile(filepath, []byte(b.String()), 0644)
}

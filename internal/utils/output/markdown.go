package output

import (
	"fmt"
	"os"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/law-makers/quotes/pkg/models"
)

// ToMarkdown converts the quotes table to a GitHub-flavored Markdown table.
// Author links are resolved against siteURL.
func ToMarkdown(quotes []models.QuoteView, siteURL string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", selec.Text(), urlutil.ResolveURL(siteURL, href))
			return &str
		},
	})

	return converter.ConvertString(QuotesTable(quotes, siteURL))
}

// SaveMarkdown writes the Markdown table to filepath
func SaveMarkdown(quotes []models.QuoteView, siteURL, filepath string) error {
	mdStr, err := ToMarkdown(quotes, siteURL)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(mdStr+"\n"), 0644)
}

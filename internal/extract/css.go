package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/law-makers/quotes/pkg/models"
)

// CSS extracts records with CSS selectors via goquery
type CSS struct{}

// NewCSS creates a CSS selector extractor
func NewCSS() *CSS {
	return &CSS{}
}

// Name returns the strategy name
func (c *CSS) Name() string {
	return "css"
}

// StartPath returns the site section read by this strategy
func (c *CSS) StartPath() string {
	return ""
}

// ParseListing extracts quotes, author links and the next page link
func (c *CSS) ParseListing(pageURL string, body []byte) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}
	return c.listingFromDocument(pageURL, doc), nil
}

func (c *CSS) listingFromDocument(pageURL string, doc *goquery.Document) *Listing {
	listing := &Listing{}

	doc.Find("div.quote").Each(func(i int, sel *goquery.Selection) {
		quote := models.Quote{
			Text:   strings.TrimSpace(sel.Find("span.text").First().Text()),
			Author: strings.TrimSpace(sel.Find("small.author").First().Text()),
			Tags:   []string{},
		}
		sel.Find("div.tags").Find("a.tag").Each(func(_ int, tag *goquery.Selection) {
			quote.Tags = append(quote.Tags, strings.TrimSpace(tag.Text()))
		})
		listing.Quotes = append(listing.Quotes, quote)

		if href, ok := sel.Find("span").Find("a[href]").First().Attr("href"); ok {
			if link := urlutil.ResolveURL(pageURL, href); link != "" {
				listing.AuthorLinks = append(listing.AuthorLinks, link)
			}
		}
	})

	listing.NextPage = nextPageCSS(pageURL, doc)
	return listing
}

// ParseAuthor extracts the author profile from div.author-details
func (c *CSS) ParseAuthor(pageURL string, body []byte) (*models.Author, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}

	info := doc.Find("div.author-details").First()
	if info.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAuthorDetails, pageURL)
	}

	location := info.Find("span.author-born-location").First().Text()
	return &models.Author{
		Name:        strings.TrimSpace(info.Find("h3").First().Text()),
		Birthday:    strings.TrimSpace(info.Find("span.author-born-date").First().Text()),
		Birthplace:  Birthplace(location),
		Description: cleanDescription(info.Find("div.author-description").First().Text()),
	}, nil
}

func nextPageCSS(pageURL string, doc *goquery.Document) string {
	href, ok := doc.Find("li.next a").First().Attr("href")
	if !ok {
		return ""
	}
	return urlutil.ResolveURL(pageURL, href)
}

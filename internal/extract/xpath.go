package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/law-makers/quotes/pkg/models"
)

// XPath expressions, kept in one place so both page kinds stay in sync
const (
	xpQuote       = "//div[@class='quote']"
	xpQuoteText   = ".//span[@class='text']"
	xpQuoteAuthor = ".//small[@class='author']"
	xpQuoteTags   = ".//div[@class='tags']/a[@class='tag']"
	xpAuthorLink  = "./span/a[@href]"
	xpNextPage    = "//li[@class='next']/a[@href]"

	xpAuthorDetails  = "//div[@class='author-details']"
	xpAuthorName     = ".//h3"
	xpAuthorBorn     = ".//span[@class='author-born-date']"
	xpAuthorLocation = ".//span[@class='author-born-location']"
	xpAuthorDesc     = ".//div[@class='author-description']"
)

// XPath extracts records with XPath expressions via htmlquery
type XPath struct{}

// NewXPath creates an XPath extractor
func NewXPath() *XPath {
	return &XPath{}
}

// Name returns the strategy name
func (x *XPath) Name() string {
	return "xpath"
}

// StartPath returns the site section read by this strategy
func (x *XPath) StartPath() string {
	return ""
}

// ParseListing extracts quotes, author links and the next page link
func (x *XPath) ParseListing(pageURL string, body []byte) (*Listing, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}

	quotes, err := htmlquery.QueryAll(doc, xpQuote)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}

	listing := &Listing{}
	for _, node := range quotes {
		quote := models.Quote{
			Text:   textOf(node, xpQuoteText),
			Author: textOf(node, xpQuoteAuthor),
			Tags:   []string{},
		}
		for _, tag := range htmlquery.Find(node, xpQuoteTags) {
			quote.Tags = append(quote.Tags, strings.TrimSpace(htmlquery.InnerText(tag)))
		}
		listing.Quotes = append(listing.Quotes, quote)

		if link := hrefOf(pageURL, node, xpAuthorLink); link != "" {
			listing.AuthorLinks = append(listing.AuthorLinks, link)
		}
	}

	listing.NextPage = hrefOf(pageURL, doc, xpNextPage)
	return listing, nil
}

// ParseAuthor extracts the author profile from the author-details block
func (x *XPath) ParseAuthor(pageURL string, body []byte) (*models.Author, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}

	info := htmlquery.FindOne(doc, xpAuthorDetails)
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAuthorDetails, pageURL)
	}

	var description string
	if n := htmlquery.FindOne(info, xpAuthorDesc); n != nil {
		description = cleanDescription(htmlquery.InnerText(n))
	}

	return &models.Author{
		Name:        textOf(info, xpAuthorName),
		Birthday:    textOf(info, xpAuthorBorn),
		Birthplace:  Birthplace(textOf(info, xpAuthorLocation)),
		Description: description,
	}, nil
}

// textOf returns the trimmed inner text of the first node matching expr
func textOf(top *html.Node, expr string) string {
	n := htmlquery.FindOne(top, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

// hrefOf returns the resolved href of the first node matching expr
func hrefOf(pageURL string, top *html.Node, expr string) string {
	n := htmlquery.FindOne(top, expr)
	if n == nil {
		return ""
	}
	return urlutil.ResolveURL(pageURL, htmlquery.SelectAttr(n, "href"))
}

package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"

	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/law-makers/quotes/pkg/models"
)

// DefaultScriptTimeout bounds the evaluation of the inline scripts of one page
const DefaultScriptTimeout = 2 * time.Second

// scriptPrelude stubs the little browser surface the listing script touches.
// document.write output is discarded; the quotes are read from the "data" global.
const scriptPrelude = `
var window = this;
var document = { write: function() {}, writeln: function() {} };
var console = { log: function() {}, error: function() {} };
var $ = {
	map: function(arr, fn) {
		var out = [];
		for (var i = 0; i < arr.length; i++) { out.push(fn(arr[i], i)); }
		return out;
	}
};
var jQuery = $;
`

// scriptQuote mirrors one entry of the page's "data" array
type scriptQuote struct {
	Text   string   `json:"text"`
	Tags   []string `json:"tags"`
	Author struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"author"`
}

// Script reads the JavaScript-rendered listing pages (/js/) by evaluating their
// inline scripts. Author pages are static and handled by the CSS strategy.
type Script struct {
	css     *CSS
	timeout time.Duration
}

// NewScript creates a script extractor. timeout <= 0 uses DefaultScriptTimeout.
func NewScript(timeout time.Duration) *Script {
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &Script{css: NewCSS(), timeout: timeout}
}

// Name returns the strategy name
func (s *Script) Name() string {
	return "script"
}

// StartPath returns the site section read by this strategy
func (s *Script) StartPath() string {
	return "js"
}

// ParseListing evaluates the page scripts and converts the "data" global into quotes
func (s *Script) ParseListing(pageURL string, body []byte) (*Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDocument, err)
	}

	entries, err := s.evaluate(pageURL, doc)
	if err != nil {
		return nil, err
	}

	listing := &Listing{NextPage: nextPageCSS(pageURL, doc)}
	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		listing.Quotes = append(listing.Quotes, models.Quote{
			Text:   strings.TrimSpace(e.Text),
			Author: strings.TrimSpace(e.Author.Name),
			Tags:   tags,
		})
		if slug := strings.TrimSpace(e.Author.Slug); slug != "" {
			listing.AuthorLinks = append(listing.AuthorLinks, urlutil.ResolveURL(pageURL, "/author/"+slug))
		}
	}
	return listing, nil
}

// ParseAuthor delegates to the CSS strategy
func (s *Script) ParseAuthor(pageURL string, body []byte) (*models.Author, error) {
	return s.css.ParseAuthor(pageURL, body)
}

func (s *Script) evaluate(pageURL string, doc *goquery.Document) ([]scriptQuote, error) {
	vm := goja.New()
	if _, err := vm.RunString(scriptPrelude); err != nil {
		return nil, fmt.Errorf("%w: prelude: %v", ErrScriptEvaluation, err)
	}

	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt("script timeout")
	})
	defer timer.Stop()

	var interrupted error
	doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		// External scripts (jquery.js) are not fetched
		if _, external := sel.Attr("src"); external {
			return true
		}
		src := sel.Text()
		if strings.TrimSpace(src) == "" {
			return true
		}
		if _, err := vm.RunString(src); err != nil {
			var ie *goja.InterruptedError
			if errors.As(err, &ie) {
				interrupted = err
				return false
			}
			log.Debug().Err(err).Str("url", pageURL).Int("script", i).Msg("Inline script failed")
		}
		return true
	})
	if interrupted != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptEvaluation, interrupted)
	}

	data := vm.Get("data")
	if data == nil || goja.IsUndefined(data) || goja.IsNull(data) {
		return nil, nil
	}

	raw, err := json.Marshal(data.Export())
	if err != nil {
		return nil, fmt.Errorf("%w: export data: %v", ErrScriptEvaluation, err)
	}
	var entries []scriptQuote
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", ErrScriptEvaluation, err)
	}
	return entries, nil
}

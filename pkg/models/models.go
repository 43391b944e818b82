package models

import (
	"encoding/json"
	"fmt"
)

// RecordType identifies the payload carried by a feed record
type RecordType string

const (
	TypeQuote  RecordType = "quote"
	TypeAuthor RecordType = "author"
)

// Quote is a single quotation scraped from a listing page
type Quote struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// Author is the profile scraped from an author page.
// Birthplace is serialized as "country" to stay compatible with existing feeds.
type Author struct {
	Name        string `json:"author_name"`
	Birthday    string `json:"birthday"`
	Birthplace  string `json:"country"`
	Description string `json:"desc"`
}

// Record is one entry of the feed: {"type": ..., "data": {...}}
type Record struct {
	Type   RecordType
	Quote  *Quote
	Author *Author
}

// QuoteRecord wraps a quote into a feed record
func QuoteRecord(q Quote) Record {
	return Record{Type: TypeQuote, Quote: &q}
}

// AuthorRecord wraps an author into a feed record
func AuthorRecord(a Author) Record {
	return Record{Type: TypeAuthor, Author: &a}
}

type wireRecord struct {
	Type RecordType      `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON implements json.Marshaler
func (r Record) MarshalJSON() ([]byte, error) {
	var data any
	switch r.Type {
	case TypeQuote:
		if r.Quote == nil {
			return nil, fmt.Errorf("quote record without data")
		}
		q := *r.Quote
		if q.Tags == nil {
			q.Tags = []string{}
		}
		data = q
	case TypeAuthor:
		if r.Author == nil {
			return nil, fmt.Errorf("author record without data")
		}
		data = r.Author
	default:
		return nil, fmt.Errorf("unknown record type %q", r.Type)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireRecord{Type: r.Type, Data: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
// Records of an unknown type decode without a payload.
func (r *Record) UnmarshalJSON(b []byte) error {
	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*r = Record{Type: w.Type}
	switch w.Type {
	case TypeQuote:
		var q Quote
		if err := json.Unmarshal(w.Data, &q); err != nil {
			return fmt.Errorf("decode quote: %w", err)
		}
		r.Quote = &q
	case TypeAuthor:
		var a Author
		if err := json.Unmarshal(w.Data, &a); err != nil {
			return fmt.Errorf("decode author: %w", err)
		}
		r.Author = &a
	}
	return nil
}

// Stats summarizes a crawl run
type Stats struct {
	ListingPages int `json:"listing_pages"`
	AuthorPages  int `json:"author_pages"`
	Quotes       int `json:"quotes"`
	Authors      int `json:"authors"`
	Failed       int `json:"failed"`
}

// QuoteView is a stored quote joined with its author name and tags
type QuoteView struct {
	ID     int64    `json:"id"`
	Text   string   `json:"quote"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

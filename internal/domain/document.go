package domain

import (
	"errors"
	"time"
)

// ErrBodyTooLarge is returned by fetchers when a 2xx body exceeds their cap.
var ErrBodyTooLarge = errors.New("response body too large")

// Format names the representation held in Document text.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatRaw      Format = "raw"
)

// Document is normalized text extracted from a single fetched web page.
// Fields are read-only once built by NewDocument.
type Document struct {
	sourceURL   string
	title       string
	text        string
	contentType string
	format      Format
	fetchedAt   time.Time
}

// DocumentParams carries everything NewDocument needs.
type DocumentParams struct {
	SourceURL   string
	Title       string
	Text        string
	ContentType string
	Format      Format
	FetchedAt   time.Time
}

// NewDocument builds an immutable Document.
func NewDocument(p DocumentParams) Document {
	return Document{
		sourceURL:   p.SourceURL,
		title:       p.Title,
		text:        p.Text,
		contentType: p.ContentType,
		format:      p.Format,
		fetchedAt:   p.FetchedAt,
	}
}

// SourceURL is the URL the caller asked for.
func (d Document) SourceURL() string { return d.sourceURL }
func (d Document) Title() string { return d.title }
func (d Document) Text() string { return d.text }
func (d Document) ContentType() string { return d.contentType }
func (d Document) Format() Format { return d.format }
func (d Document) FetchedAt() time.Time { return d.fetchedAt }

// IsZero reports whether d was never populated.
func (d Document) IsZero() bool {
	return d.sourceURL == "" && d.text == ""
}

// Page is the raw result of a single HTTP GET.
type Page struct {
	URL         string
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

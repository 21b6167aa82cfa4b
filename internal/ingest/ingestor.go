package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"PageIngest/internal/domain"
	"PageIngest/internal/extract"
	"PageIngest/internal/ports"
)

// PageIngestor fetches one page and normalizes it into a Document.
// It keeps no per-call state and is safe for concurrent use.
type PageIngestor struct {
	fetcher    ports.PageFetcher
	extractors *extract.Registry
	now        func() time.Time
	logger     *slog.Logger
}

var _ ports.Ingestor = (*PageIngestor)(nil)

// NewPageIngestor wires a fetcher with the extractor registry.
func NewPageIngestor(fetcher ports.PageFetcher, extractors *extract.Registry, log *slog.Logger) *PageIngestor {
	return &PageIngestor{
		fetcher:    fetcher,
		extractors: extractors,
		now:        time.Now,
		logger:     log,
	}
}

// Ingest performs a single GET against rawURL and returns the normalized page.
func (p *PageIngestor) Ingest(ctx context.Context, rawURL string, opts domain.IngestOptions) (domain.Document, error) {
	if err := ValidateURL(rawURL); err != nil {
		return domain.Document{}, &Error{Kind: ErrInvalidInput, URL: rawURL, Err: err}
	}

	opts, extractor, err := p.resolveOptions(opts)
	if err != nil {
		return domain.Document{}, &Error{Kind: ErrInvalidInput, URL: rawURL, Err: err}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	p.debug("fetch page", "url", rawURL, "timeout", opts.Timeout, "format", opts.Format, "strip_html", opts.StripHTML)
	page, err := p.fetcher.Fetch(fetchCtx, rawURL)
	if err != nil {
		return domain.Document{}, classifyFetchError(ctx, fetchCtx, rawURL, page, err)
	}
	fetchedAt := p.now().UTC()

	if page.StatusCode < 200 || page.StatusCode > 299 {
		return domain.Document{}, &Error{Kind: ErrFetchFailed, URL: rawURL, Status: page.StatusCode}
	}

	title, text, format, err := p.normalize(page, opts, extractor)
	if err != nil {
		return domain.Document{}, &Error{Kind: ErrFetchFailed, URL: rawURL, Status: page.StatusCode, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, &Error{Kind: ErrEmptyContent, URL: rawURL, Status: page.StatusCode}
	}

	doc := domain.NewDocument(domain.DocumentParams{
		SourceURL:   rawURL,
		Title:       title,
		Text:        text,
		ContentType: page.ContentType,
		Format:      format,
		FetchedAt:   fetchedAt,
	})
	p.debug("page ingested", "url", rawURL, "title", title, "chars", len(text))
	return doc, nil
}

func (p *PageIngestor) resolveOptions(opts domain.IngestOptions) (domain.IngestOptions, extract.Extractor, error) {
	if opts.Timeout < 0 {
		return opts, nil, fmt.Errorf("timeout must not be negative, got %s", opts.Timeout)
	}
	if opts.Timeout == 0 {
		opts.Timeout = domain.DefaultIngestTimeout
	}
	if opts.Format == "" {
		opts.Format = domain.FormatText
	}
	if !opts.StripHTML {
		return opts, nil, nil
	}

	extractor, err := p.extractors.Resolve(opts.Format)
	if err != nil {
		return opts, nil, err
	}
	return opts, extractor, nil
}

func (p *PageIngestor) normalize(page domain.Page, opts domain.IngestOptions, extractor extract.Extractor) (string, string, domain.Format, error) {
	if !opts.StripHTML {
		return "", string(page.Body), domain.FormatRaw, nil
	}
	if !isMarkup(page.ContentType) {
		return "", strings.TrimSpace(string(page.Body)), domain.FormatText, nil
	}

	res, err := extractor.Extract(page.Body, page.URL)
	if err != nil {
		return "", "", "", fmt.Errorf("extract %s: %w", opts.Format, err)
	}
	return res.Title, res.Text, opts.Format, nil
}

// isMarkup reports whether contentType should go through an HTML extractor.
// A missing content type is treated as HTML.
func isMarkup(contentType string) bool {
	switch contentType {
	case "", "text/html", "application/xhtml+xml":
		return true
	default:
		return false
	}
}

// ValidateURL accepts absolute http(s) URLs with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("url is empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if !parsed.IsAbs() {
		return fmt.Errorf("url %q is not absolute", rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("url %q has no host", rawURL)
	}
	return nil
}

func classifyFetchError(parent, fetchCtx context.Context, rawURL string, page domain.Page, err error) error {
	switch {
	case errors.Is(err, domain.ErrBodyTooLarge):
		return &Error{Kind: ErrFetchFailed, URL: rawURL, Status: page.StatusCode, Err: err}
	case errors.Is(parent.Err(), context.Canceled):
		return &Error{Kind: ErrNetwork, URL: rawURL, Err: parent.Err()}
	case fetchCtx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: ErrTimeout, URL: rawURL, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrTimeout, URL: rawURL, Err: err}
	}
	return &Error{Kind: ErrNetwork, URL: rawURL, Err: err}
}

func (p *PageIngestor) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

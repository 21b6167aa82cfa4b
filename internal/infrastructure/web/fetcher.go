package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"PageIngest/internal/domain"
	"PageIngest/internal/ports"
)

const (
	defaultUserAgent    = "PageIngest/1.0"
	defaultMaxBodyBytes = 10 << 20
	maxRedirects        = 10
)

// Fetcher issues single-attempt GET requests. Deadlines come from the caller's context.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// Config tunes the fetcher; zero values fall back to defaults.
type Config struct {
	UserAgent    string
	MaxBodyBytes int64
}

// NewFetcher wires an HTTP client; a nil client gets a transport with dial and TLS timeouts.
func NewFetcher(client *http.Client, cfg Config, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				TLSHandshakeTimeout:   10 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				ExpectContinueTimeout: time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Fetcher{
		client:       client,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       log,
	}
}

// Fetch performs one GET. Bodies of non-2xx responses are discarded.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	page := domain.Page{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
	}
	f.debug("page response", "url", page.URL, "status", page.StatusCode, "content_type", page.ContentType)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return domain.Page{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxBodyBytes {
		return page, fmt.Errorf("%w: exceeds %d bytes", domain.ErrBodyTooLarge, f.maxBodyBytes)
	}

	page.Body = toUTF8(raw, resp.Header.Get("Content-Type"))
	return page, nil
}

// toUTF8 decodes body using the declared or sniffed charset.
func toUTF8(raw []byte, contentType string) []byte {
	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" || enc == nil {
		return raw
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}

func (f *Fetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

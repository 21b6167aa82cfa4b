package ports

import (
	"context"

	"PageIngest/internal/domain"
)

// PageFetcher performs a single HTTP GET and returns the raw page.
// Non-2xx responses are returned as pages, not errors.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Page, error)
}

// Ingestor turns one URL into a Document.
type Ingestor interface {
	Ingest(ctx context.Context, url string, opts domain.IngestOptions) (domain.Document, error)
}

// SecretsProvider resolves named credentials for downstream consumers.
type SecretsProvider interface {
	Secret(name string) (string, error)
}

// IngestLog persists an audit trail of ingestion attempts.
type IngestLog interface {
	Record(ctx context.Context, rec domain.IngestRecord) (int64, error)
}

package domain

import "time"

// DefaultIngestTimeout bounds a fetch when options leave Timeout unset.
const DefaultIngestTimeout = 10 * time.Second

// IngestOptions tunes a single ingestion.
type IngestOptions struct {
	// StripHTML converts HTML to Format before returning. When false the body
	// is returned verbatim.
	StripHTML bool
	// Timeout aborts the fetch once exceeded. Zero means DefaultIngestTimeout.
	Timeout time.Duration
	// Format selects the extractor; empty means FormatText.
	Format Format
}

// DefaultIngestOptions returns StripHTML=true, a 10s timeout and plain text.
func DefaultIngestOptions() IngestOptions {
	return IngestOptions{
		StripHTML: true,
		Timeout:   DefaultIngestTimeout,
		Format:    FormatText,
	}
}

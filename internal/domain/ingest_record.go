package domain

import "time"

// IngestStatus enumerates the outcome of one ingestion attempt.
type IngestStatus string

const (
	StatusSucceeded IngestStatus = "succeeded"
	StatusFailed    IngestStatus = "failed"
)

// IngestRecord is the audit row written for every attempt. It never holds
// the document text.
type IngestRecord struct {
	ID         int64
	URL        string
	Status     IngestStatus
	ErrorKind  string
	HTTPStatus int
	Title      string
	TextLength int
	Format     Format
	StartedAt  time.Time
	Duration   time.Duration
}

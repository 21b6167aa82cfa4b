package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"PageIngest/internal/domain"
	"PageIngest/internal/ingest"
	"PageIngest/internal/ports"
)

type stubIngestor struct {
	doc domain.Document
	err error
}

func (s stubIngestor) Ingest(context.Context, string, domain.IngestOptions) (domain.Document, error) {
	return s.doc, s.err
}

// memoryLog only appends; reading the trail back is a storage concern.
type memoryLog struct {
	records []domain.IngestRecord
	err     error
}

var _ ports.IngestLog = (*memoryLog)(nil)

func (m *memoryLog) Record(_ context.Context, rec domain.IngestRecord) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, rec)
	return int64(len(m.records)), nil
}

type mapSecrets map[string]string

func (m mapSecrets) Secret(name string) (string, error) {
	if v, ok := m[name]; ok {
		return v, nil
	}
	return "", errors.New("missing")
}

func TestIngestPageRecordsSuccess(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument(domain.DocumentParams{
		SourceURL: "https://example.com/article",
		Title:     "Article",
		Text:      "Title\nBody text.",
		Format:    domain.FormatText,
		FetchedAt: time.Now(),
	})
	log := &memoryLog{}

	uc := NewIngestPage(IngestDeps{
		Ingestor:   stubIngestor{doc: doc},
		Secrets:    mapSecrets{"OPENAI_API_KEY": "sk-test-1234"},
		SecretKeys: []string{"OPENAI_API_KEY", "MISSING_KEY"},
		Log:        log,
	})

	got, err := uc.Run(context.Background(), "https://example.com/article", domain.DefaultIngestOptions())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got.Text() != doc.Text() {
		t.Fatalf("unexpected document text: %q", got.Text())
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	rec := log.records[0]
	if rec.Status != domain.StatusSucceeded || rec.Title != "Article" || rec.TextLength != len(doc.Text()) || rec.Format != domain.FormatText {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ErrorKind != "" {
		t.Fatalf("unexpected error kind: %s", rec.ErrorKind)
	}
}

func TestIngestPageRecordsFailure(t *testing.T) {
	t.Parallel()

	ingestErr := &ingest.Error{Kind: ingest.ErrFetchFailed, URL: "https://example.com/missing", Status: 404}
	log := &memoryLog{}

	uc := NewIngestPage(IngestDeps{
		Ingestor: stubIngestor{err: ingestErr},
		Log:      log,
	})

	_, err := uc.Run(context.Background(), "https://example.com/missing", domain.DefaultIngestOptions())
	if !errors.Is(err, ingest.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	rec := log.records[0]
	if rec.Status != domain.StatusFailed || rec.ErrorKind != "fetch_failed" || rec.HTTPStatus != 404 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestIngestPageLogFailureDoesNotMaskResult(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument(domain.DocumentParams{SourceURL: "https://example.com", Text: "ok"})
	uc := NewIngestPage(IngestDeps{
		Ingestor: stubIngestor{doc: doc},
		Log:      &memoryLog{err: errors.New("disk full")},
	})

	got, err := uc.Run(context.Background(), "https://example.com", domain.DefaultIngestOptions())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got.Text() != "ok" {
		t.Fatalf("unexpected text: %q", got.Text())
	}
}

func TestIngestPageWithoutIngestor(t *testing.T) {
	t.Parallel()

	if _, err := NewIngestPage(IngestDeps{}).Run(context.Background(), "https://example.com", domain.DefaultIngestOptions()); err == nil {
		t.Fatalf("expected error without ingestor")
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"PageIngest/internal/domain"
)

func TestSQLiteRepositoryRecordAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer repo.Close()

	started := time.Date(2025, time.November, 8, 10, 0, 0, 0, time.UTC)
	first := domain.IngestRecord{
		URL:        "https://example.com/a",
		Status:     domain.StatusSucceeded,
		HTTPStatus: 200,
		Title:      "A",
		TextLength: 42,
		Format:     domain.FormatText,
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
	}
	second := domain.IngestRecord{
		URL:        "https://example.com/b",
		Status:     domain.StatusFailed,
		ErrorKind:  "fetch_failed",
		HTTPStatus: 404,
		StartedAt:  started.Add(time.Minute),
	}

	id1, err := repo.Record(ctx, first)
	if err != nil {
		t.Fatalf("Record first: %v", err)
	}
	id2, err := repo.Record(ctx, second)
	if err != nil {
		t.Fatalf("Record second: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected increasing ids, got %d then %d", id1, id2)
	}

	records, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].URL != second.URL || records[0].ErrorKind != "fetch_failed" || records[0].HTTPStatus != 404 {
		t.Fatalf("unexpected newest record: %+v", records[0])
	}

	got := records[1]
	if got.Status != domain.StatusSucceeded || got.Title != "A" || got.TextLength != 42 || got.Format != domain.FormatText {
		t.Fatalf("unexpected oldest record: %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("unexpected started_at: %v", got.StartedAt)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected duration: %v", got.Duration)
	}

	limited, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent limited: %v", err)
	}
	if len(limited) != 1 || limited[0].URL != second.URL {
		t.Fatalf("unexpected limited result: %+v", limited)
	}
}

func TestSQLiteRepositoryFileReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ingest.db")

	repo, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, err := repo.Record(ctx, domain.IngestRecord{URL: "https://example.com", Status: domain.StatusSucceeded, StartedAt: time.Now()}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected persisted record, got %d", len(records))
	}
}

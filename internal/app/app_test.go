package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"PageIngest/internal/config"
	"PageIngest/internal/domain"
	"PageIngest/internal/infrastructure/storage"
	"PageIngest/internal/ingest"
	"PageIngest/internal/logging"
)

func testConfig(url, dsn string) config.Config {
	strip := true
	return config.Config{
		Ingest: config.IngestConfig{
			URL:            url,
			StripHTML:      &strip,
			TimeoutSeconds: 5,
			Format:         "text",
		},
		Secrets: config.SecretsConfig{Keys: []string{"PAGE_INGEST_TEST_MISSING_KEY"}},
		Storage: config.StorageConfig{DSN: dsn},
	}
}

func TestApplicationRunHandsOffDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<title>Overview</title><h1>Title</h1><p>Body text.</p>`))
	}))
	defer server.Close()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "log.db")
	application, err := New(ctx, testConfig(server.URL, dsn), logging.NewWithWriter(io.Discard, "debug", "text"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var got domain.Document
	application.OnDocument(func(doc domain.Document) { got = doc })

	if err := application.Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if err := application.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if got.Text() != "Title\nBody text." || got.Title() != "Overview" {
		t.Fatalf("unexpected document: %q / %q", got.Title(), got.Text())
	}

	repo, err := storage.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen log: %v", err)
	}
	defer repo.Close()

	records, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Status != domain.StatusSucceeded {
		t.Fatalf("unexpected audit log: %+v", records)
	}
}

func TestApplicationRunSurfacesTypedError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	application, err := New(context.Background(), testConfig(server.URL, ""), logging.NewWithWriter(io.Discard, "error", "text"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer application.Close()

	err = application.Run(context.Background())
	if !errors.Is(err, ingest.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if status, _ := ingest.StatusCode(err); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

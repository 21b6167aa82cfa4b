package app

import (
	"context"
	"fmt"
	"log/slog"

	"PageIngest/internal/config"
	"PageIngest/internal/domain"
	"PageIngest/internal/extract"
	"PageIngest/internal/infrastructure/parser"
	"PageIngest/internal/infrastructure/secrets"
	"PageIngest/internal/infrastructure/storage"
	"PageIngest/internal/infrastructure/web"
	"PageIngest/internal/ingest"
	"PageIngest/internal/logging"
	"PageIngest/internal/ports"
	"PageIngest/internal/usecase"
)

// Application wires configs to the ingestion use case.
type Application struct {
	cfg     config.Config
	ingest  *usecase.IngestPage
	store   *storage.SQLiteRepository
	logger  *slog.Logger
	handoff func(domain.Document)
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	fetcher := web.NewFetcher(nil, web.Config{
		UserAgent:    cfg.Ingest.UserAgent,
		MaxBodyBytes: cfg.Ingest.MaxBodyBytes,
	}, baseLogger.With("component", "fetcher"))

	registry := extract.NewRegistry(parser.NewTextExtractor(), parser.NewMarkdownExtractor())
	ingestor := ingest.NewPageIngestor(fetcher, registry, baseLogger.With("component", "ingestor"))

	secretsProvider, err := secrets.NewEnvProvider(cfg.Secrets.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("secrets provider: %w", err)
	}

	var (
		store     *storage.SQLiteRepository
		ingestLog ports.IngestLog
	)
	if cfg.Storage.DSN != "" {
		store, err = storage.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("ingest log: %w", err)
		}
		ingestLog = store
	}

	uc := usecase.NewIngestPage(usecase.IngestDeps{
		Ingestor:   ingestor,
		Secrets:    secretsProvider,
		SecretKeys: cfg.Secrets.Keys,
		Log:        ingestLog,
		Logger:     baseLogger.With("component", "ingest"),
	})

	return &Application{cfg: cfg, ingest: uc, store: store, logger: baseLogger}, nil
}

// OnDocument registers the consumer that receives the ingested document.
// Without one the document is only summarized in the log.
func (a *Application) OnDocument(fn func(domain.Document)) {
	a.handoff = fn
}

// Run ingests the configured URL once.
func (a *Application) Run(ctx context.Context) error {
	if a.ingest == nil {
		return nil
	}

	doc, err := a.ingest.Run(ctx, a.cfg.Ingest.URL, a.cfg.Ingest.Options())
	if err != nil {
		return err
	}

	if a.handoff != nil {
		a.handoff(doc)
	}
	return nil
}

// Close releases the audit log, if any.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

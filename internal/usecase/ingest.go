package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"PageIngest/internal/domain"
	"PageIngest/internal/infrastructure/secrets"
	"PageIngest/internal/ingest"
	"PageIngest/internal/ports"
)

// IngestDeps wires all driven adapters into the ingestion use case.
type IngestDeps struct {
	Ingestor   ports.Ingestor
	Secrets    ports.SecretsProvider
	SecretKeys []string
	Log        ports.IngestLog
	Logger     *slog.Logger
}

// IngestPage runs one ingestion and keeps its side concerns (secrets report,
// audit trail) out of PageIngestor.
type IngestPage struct {
	ingestor   ports.Ingestor
	secrets    ports.SecretsProvider
	secretKeys []string
	log        ports.IngestLog
	logger     *slog.Logger
	now        func() time.Time
}

// NewIngestPage constructs the use case.
func NewIngestPage(deps IngestDeps) *IngestPage {
	return &IngestPage{
		ingestor:   deps.Ingestor,
		secrets:    deps.Secrets,
		secretKeys: deps.SecretKeys,
		log:        deps.Log,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Run reports downstream credentials, ingests url and records the attempt.
func (u *IngestPage) Run(ctx context.Context, url string, opts domain.IngestOptions) (domain.Document, error) {
	if u.ingestor == nil {
		return domain.Document{}, errors.New("ingestor is not configured")
	}

	u.reportSecrets()

	started := u.now()
	doc, err := u.ingestor.Ingest(ctx, url, opts)
	u.record(ctx, url, started, doc, err)

	if err != nil {
		return domain.Document{}, fmt.Errorf("ingest page: %w", err)
	}

	u.info("document ready",
		"url", doc.SourceURL(),
		"title", doc.Title(),
		"format", doc.Format(),
		"chars", len(doc.Text()),
		"fetched_at", doc.FetchedAt().Format(time.RFC3339),
	)
	return doc, nil
}

func (u *IngestPage) reportSecrets() {
	if u.secrets == nil {
		return
	}
	for _, key := range u.secretKeys {
		value, err := u.secrets.Secret(key)
		if err != nil {
			u.warn("downstream secret unavailable", "key", key, "error", err)
			continue
		}
		u.info("downstream secret loaded", "key", key, "value", secrets.Mask(value))
	}
}

func (u *IngestPage) record(ctx context.Context, url string, started time.Time, doc domain.Document, ingestErr error) {
	if u.log == nil {
		return
	}

	rec := domain.IngestRecord{
		URL:       url,
		Status:    domain.StatusSucceeded,
		StartedAt: started,
		Duration:  u.now().Sub(started),
	}
	if ingestErr != nil {
		rec.Status = domain.StatusFailed
		rec.ErrorKind = ingest.KindName(ingestErr)
		rec.HTTPStatus, _ = ingest.StatusCode(ingestErr)
	} else {
		rec.Title = doc.Title()
		rec.TextLength = len(doc.Text())
		rec.Format = doc.Format()
	}

	if _, err := u.log.Record(context.WithoutCancel(ctx), rec); err != nil {
		u.warn("record ingest attempt", "url", url, "error", err)
	}
}

func (u *IngestPage) info(msg string, args ...interface{}) {
	if u.logger != nil {
		u.logger.Info(msg, args...)
	}
}

func (u *IngestPage) warn(msg string, args ...interface{}) {
	if u.logger != nil {
		u.logger.Warn(msg, args...)
	}
}

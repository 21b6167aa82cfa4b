package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"PageIngest/internal/domain"
	"PageIngest/internal/ports"
)

const ingestLogTable = "ingest_log"

const schema = `CREATE TABLE IF NOT EXISTS ingest_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	url         TEXT    NOT NULL,
	status      TEXT    NOT NULL,
	error_kind  TEXT    NOT NULL DEFAULT '',
	http_status INTEGER NOT NULL DEFAULT 0,
	title       TEXT    NOT NULL DEFAULT '',
	text_length INTEGER NOT NULL DEFAULT 0,
	format      TEXT    NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
)`

// SQLiteRepository keeps the ingestion audit trail in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.IngestLog = (*SQLiteRepository)(nil)

// Open connects to dsn (a path or ":memory:") and applies the schema.
func Open(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	repo := NewSQLiteRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wires an already opened sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate creates the audit table when missing.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s: %w", ingestLogTable, err)
	}
	return nil
}

// Record appends one attempt and returns its row id.
func (r *SQLiteRepository) Record(ctx context.Context, rec domain.IngestRecord) (int64, error) {
	query, args, err := sq.Insert(ingestLogTable).
		Columns("url", "status", "error_kind", "http_status", "title", "text_length", "format", "started_at", "duration_ms").
		Values(
			rec.URL,
			string(rec.Status),
			rec.ErrorKind,
			rec.HTTPStatus,
			rec.Title,
			rec.TextLength,
			string(rec.Format),
			rec.StartedAt.UTC().UnixMilli(),
			rec.Duration.Milliseconds(),
		).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, args, err := sq.Select("id", "url", "status", "error_kind", "http_status", "title", "text_length", "format", "started_at", "duration_ms").
		From(ingestLogTable).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	var result []domain.IngestRecord
	for rows.Next() {
		var (
			rec        domain.IngestRecord
			status     string
			format     string
			startedAt  int64
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &status, &rec.ErrorKind, &rec.HTTPStatus, &rec.Title, &rec.TextLength, &format, &startedAt, &durationMS); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Status = domain.IngestStatus(status)
		rec.Format = domain.Format(format)
		rec.StartedAt = time.UnixMilli(startedAt).UTC()
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

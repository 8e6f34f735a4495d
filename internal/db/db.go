// Package db provides PostgreSQL storage for resume analysis reports.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// schemaSQL creates the reports table. Statements are idempotent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS resume_reports (
	id             UUID PRIMARY KEY,
	file_name      TEXT NOT NULL,
	candidate_name TEXT NOT NULL DEFAULT '',
	match_score    DOUBLE PRECISION NOT NULL,
	extracted_text TEXT NOT NULL,
	summary_json   JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_resume_reports_created_at ON resume_reports (created_at);
`

const insertReportSQL = `INSERT INTO resume_reports
	(id, file_name, candidate_name, match_score, extracted_text, summary_json, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// execer is the subset of pgxpool.Pool used for writes.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
	exec execer
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, exec: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the reports table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.exec.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveReport inserts a report. It implements analysis.ReportSink.
func (db *DB) SaveReport(ctx context.Context, report *analysis.Report) error {
	if report == nil {
		return fmt.Errorf("failed to save report: report is nil")
	}

	_, err := db.exec.Exec(ctx, insertReportSQL,
		report.ID,
		report.FileName,
		textColumn(report.CandidateName),
		report.MatchScore,
		textColumn(report.ExtractedText),
		[]byte(report.Summary),
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// textColumn makes document text storable in a TEXT column: invalid UTF-8 becomes
// U+FFFD and NUL bytes are dropped, both of which Postgres rejects.
func textColumn(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

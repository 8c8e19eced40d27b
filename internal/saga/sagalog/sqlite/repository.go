// Package sqlite is the SQLite-backed sagalog.Repository. WAL mode keeps
// the settlement write path from blocking concurrent log reads.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/checkout-core/internal/saga/sagalog"

	_ "modernc.org/sqlite"
)

// The table is append-only: each row is an immutable event in a saga's
// lifecycle. The latest row per saga_id is its current state.
const schema = `
CREATE TABLE IF NOT EXISTS saga_logs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id        TEXT NOT NULL,
    status         TEXT NOT NULL,
    current_step   TEXT NOT NULL DEFAULT '',
    error_messages TEXT NOT NULL DEFAULT '[]',
    trace_id       TEXT NOT NULL DEFAULT '',
    span_id        TEXT NOT NULL DEFAULT '',
    updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_saga_id ON saga_logs(saga_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_saga_logs_trace_id ON saga_logs(trace_id);
`

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the saga log database at path.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sagalog: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sagalog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a log entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *sagalog.Entry) error {
	const q = `
		INSERT INTO saga_logs (saga_id, status, current_step, error_messages, trace_id, span_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.CurrentStep,
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sagalog: save entry for %q: %w", entry.SagaID, err)
	}
	return nil
}

// GetLatest returns the most recent entry for a saga id.
func (r *Repository) GetLatest(ctx context.Context, sagaID string) (*sagalog.Entry, error) {
	const q = `
		SELECT saga_id, status, current_step, error_messages, trace_id, span_id, updated_at
		FROM   saga_logs
		WHERE  saga_id = ?
		ORDER  BY updated_at DESC, id DESC
		LIMIT  1`

	var entry sagalog.Entry
	var updatedAt string
	err := r.db.QueryRowContext(ctx, q, sagaID).Scan(
		&entry.SagaID, &entry.Status, &entry.CurrentStep,
		&entry.ErrorMessages, &entry.TraceID, &entry.SpanID, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sagalog: saga %q not found", sagaID)
	}
	if err != nil {
		return nil, fmt.Errorf("sagalog: get latest for %q: %w", sagaID, err)
	}

	entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("sagalog: parse time %q: %w", updatedAt, err)
	}
	return &entry, nil
}

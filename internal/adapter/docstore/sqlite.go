// Package docstore is the durable half of the Load stage: a keyed
// append-only document store backed by a local SQLite file through the
// pure-Go driver. Rows are never updated or deleted by the pipeline.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_kind_created ON documents (kind, created_at);
`

// Store implements pipeline.DocumentStore on SQLite.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (creating if needed) the store at path and ensures the schema.
func Open(path string, clock clockwork.Clock) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("init document store schema: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

// AppendDocument inserts one document row for a run and artifact kind.
func (s *Store) AppendDocument(ctx context.Context, runID, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", kind, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (run_id, kind, created_at, body) VALUES (?, ?, ?, ?)`,
		runID, kind, s.clock.Now().UTC().Format(time.RFC3339), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert %s document: %w", kind, err)
	}
	return nil
}

// Count returns the number of stored documents of a kind.
func (s *Store) Count(ctx context.Context, kind string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE kind = ?`, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", kind, err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

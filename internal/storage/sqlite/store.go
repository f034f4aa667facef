// Package sqlite is the SQLite-backed invocation store.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/workflowkit/notion-bridge/internal/storage"
)

// Store is a SQLite implementation of InvocationStore.
type Store struct {
	db *sqlx.DB
}

var _ storage.InvocationStore = (*Store)(nil)

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invocations (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			database_id TEXT,
			page_id TEXT,
			success INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			warnings TEXT,
			duration_ns INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_operation ON invocations(operation)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_created ON invocations(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// RecordInvocation inserts one invocation row.
func (s *Store) RecordInvocation(ctx context.Context, inv *storage.Invocation) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO invocations (id, operation, database_id, page_id, success, error_message, warnings, duration_ns, created_at)
		VALUES (:id, :operation, :database_id, :page_id, :success, :error_message, :warnings, :duration_ns, :created_at)`,
		inv,
	)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

// ListInvocations returns up to limit invocations, newest first.
func (s *Store) ListInvocations(ctx context.Context, limit int) ([]storage.Invocation, error) {
	if limit <= 0 {
		limit = 50
	}

	var invocations []storage.Invocation
	err := s.db.SelectContext(ctx, &invocations, `
		SELECT id, operation, database_id, page_id, success, error_message, warnings, duration_ns, created_at
		FROM invocations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invocations: %w", err)
	}
	return invocations, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

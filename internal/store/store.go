// Package store implements the embedded SQLite persistence core: versioned
// schema migrations, the full-text index kept consistent with the notes
// table, the pending-operations outbox, and the query layer over notes,
// tags, links, reminders, folders, and saved searches.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a sql.DB with note-store operations. Correctness of
// multi-table mutations rests entirely on transactional boundaries; there
// is no in-process locking beyond the engine's own serialization.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database, applies all pending
// migrations, and ensures the search index exists. A migration failure is
// fatal: the returned error must abort startup.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ftsInit(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: init search index: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. The outbox append and its paired primary write
// always share one such transaction.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// Timestamps are stored as integer unix milliseconds so keyset comparisons
// are exact and timezone-independent.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toMillisPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromMillisPtr(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := time.UnixMilli(ms.Int64).UTC()
	return &t
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

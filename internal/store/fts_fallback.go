//go:build !sqlite_fts5

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/starford/laguz/internal/models"
)

var errFTSUnavailable = errors.New("store: fts5 not compiled in")

func ftsInit(_ *sql.DB) error {
	// FTS5 not available; search uses the LIKE fallback over notes.
	return nil
}

func ftsSetup(_ *sql.Tx) error { return nil }

func ftsUpsert(_ *sql.Tx, _, _, _ string, _ bool) error {
	// Title and body already live in the notes table.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

func (s *Store) ftsSearch(_ context.Context, _ []string, _ int) ([]models.Note, error) {
	return nil, errFTSUnavailable
}

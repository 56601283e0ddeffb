//go:build sqlite_fts5

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/laguz/internal/models"
)

const ftsCreateSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
	id UNINDEXED,
	title,
	body,
	tokenize = 'unicode61 remove_diacritics 2'
);
`

// ftsInit ensures the FTS table exists. Needed at every open because the
// database may have been migrated by a binary built without FTS5.
func ftsInit(conn *sql.DB) error {
	_, err := conn.Exec(ftsCreateSQL)
	return err
}

// ftsSetup creates the FTS table and runs a full backfill from the current
// non-deleted notes. Delete-then-reinsert keeps the step retry-safe.
func ftsSetup(tx *sql.Tx) error {
	if _, err := tx.Exec(ftsCreateSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM notes_fts`); err != nil {
		return err
	}
	_, err := tx.Exec(`
		INSERT INTO notes_fts (id, title, body)
		SELECT id, title, body FROM notes WHERE deleted = 0
	`)
	return err
}

// ftsUpsert propagates a note write to the index: remove any existing entry
// for id, then re-add unless the post-state is deleted. A note
// transitioning deleted->active therefore reappears in search.
func ftsUpsert(tx *sql.Tx, id, title, body string, deleted bool) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: fts delete: %w", err)
	}
	if deleted {
		return nil
	}
	if _, err := tx.Exec(`INSERT INTO notes_fts (id, title, body) VALUES (?, ?, ?)`, id, title, body); err != nil {
		return fmt.Errorf("store: fts insert: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM notes_fts WHERE id = ?`, id)
}

// ftsSearch runs the prefix+AND match against the FTS index. Any error here
// (malformed query, missing index) makes the caller fall back to the LIKE
// scan; it is never surfaced.
func (s *Store) ftsSearch(ctx context.Context, terms []string, limit int) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumnsPrefixed("n")+`
		FROM notes_fts f
		JOIN notes n ON n.id = f.id
		WHERE notes_fts MATCH ? AND n.deleted = 0
		ORDER BY n.updated_at DESC
		LIMIT ?
	`, ftsMatchExpr(terms), limit)
	if err != nil {
		return nil, fmt.Errorf("store: fts search: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// ftsMatchExpr builds an FTS5 match expression where every term is a quoted
// prefix match, AND-ed together: `"hello"* "world"*`.
func ftsMatchExpr(terms []string) string {
	expr := ""
	for i, t := range terms {
		if i > 0 {
			expr += " "
		}
		expr += `"` + t + `"*`
	}
	return expr
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

const noteColumns = `id, title, body, encrypted_metadata, is_pinned, deleted, updated_at`

func noteColumnsPrefixed(alias string) string {
	return alias + `.id, ` + alias + `.title, ` + alias + `.body, ` +
		alias + `.encrypted_metadata, ` + alias + `.is_pinned, ` +
		alias + `.deleted, ` + alias + `.updated_at`
}

func scanNote(row interface{ Scan(...any) error }) (models.Note, error) {
	var (
		n    models.Note
		meta sql.NullString
		ms   int64
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &meta, &n.IsPinned, &n.Deleted, &ms); err != nil {
		return models.Note{}, err
	}
	n.EncryptedMetadata = meta.String
	n.UpdatedAt = fromMillis(ms)
	return n, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpsertNote inserts or replaces a note keyed by id and, in the same
// transaction, propagates the write to the search index, replaces the
// note's tags and outgoing links (when non-nil), refreshes the link-target
// resolution cache for the note's title, and appends an upsert_note entry
// to the outbox. The primary mutation and its outbox record commit or fail
// together.
func (s *Store) UpsertNote(ctx context.Context, n models.Note, tags []string, links []models.NoteLink) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO notes (id, title, body, encrypted_metadata, is_pinned, deleted, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title              = excluded.title,
				body               = excluded.body,
				encrypted_metadata = excluded.encrypted_metadata,
				is_pinned          = excluded.is_pinned,
				deleted            = excluded.deleted,
				updated_at         = excluded.updated_at
		`, n.ID, n.Title, n.Body, nullIfEmpty(n.EncryptedMetadata), n.IsPinned, n.Deleted, toMillis(n.UpdatedAt))
		if err != nil {
			return fmt.Errorf("store: upsert note: %w", err)
		}

		if err := ftsUpsert(tx, n.ID, n.Title, n.Body, n.Deleted); err != nil {
			return err
		}
		if tags != nil {
			if err := replaceTagsTx(tx, n.ID, tags); err != nil {
				return err
			}
		}
		if links != nil {
			if err := replaceLinksTx(tx, n.ID, links); err != nil {
				return err
			}
		}

		// Refresh the resolution cache: forward references to this title
		// now point at a real note.
		if !n.Deleted && n.Title != "" {
			if _, err := tx.Exec(`UPDATE note_links SET target_id = ? WHERE target_title = ?`, n.ID, n.Title); err != nil {
				return fmt.Errorf("store: resolve links: %w", err)
			}
		}

		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("store: marshal note payload: %w", err)
		}
		return enqueueOp(tx, n.ID, models.OpUpsertNote, payload)
	})
}

// SoftDeleteNote marks a note deleted, removes it from the search index,
// invalidates cached link resolutions pointing at it, and appends a
// delete_note tombstone to the outbox. The row itself is retained for sync
// reconciliation.
func (s *Store) SoftDeleteNote(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE notes SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
			toMillis(time.Now().UTC()), id)
		if err != nil {
			return fmt.Errorf("store: soft delete note: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.ErrNotFound
		}
		ftsDelete(tx, id)
		if _, err := tx.Exec(`UPDATE note_links SET target_id = NULL WHERE target_id = ?`, id); err != nil {
			return fmt.Errorf("store: unresolve links: %w", err)
		}
		return enqueueOp(tx, id, models.OpDeleteNote, nil)
	})
}

// GetNote returns a non-deleted note by id.
func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND deleted = 0`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return &n, nil
}

// AllNotes returns every non-deleted note ordered by updated_at descending.
func (s *Store) AllNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE deleted = 0 ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: all notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// NotesAfter implements keyset pagination: notes strictly older than the
// cursor by updated_at. Chaining the last returned updated_at as the next
// cursor enumerates all non-deleted notes exactly once.
func (s *Store) NotesAfter(ctx context.Context, cursor time.Time, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE deleted = 0 AND updated_at < ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, toMillis(cursor), limit)
	if err != nil {
		return nil, fmt.Errorf("store: notes after: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// PagedNotes is the offset-pagination fallback for small datasets.
func (s *Store) PagedNotes(ctx context.Context, limit, offset int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE deleted = 0
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: paged notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// CountNotes returns the number of non-deleted notes.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM notes WHERE deleted = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count notes: %w", err)
	}
	return n, nil
}

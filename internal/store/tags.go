package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/laguz/internal/models"
)

// replaceTagsTx swaps the full tag set for a note: delete old rows, bulk
// insert the new set. Never an incremental diff.
func replaceTagsTx(tx *sql.Tx, noteID string, tags []string) error {
	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: delete tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare tag insert: %w", err)
	}
	defer stmt.Close()
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := stmt.Exec(noteID, tag); err != nil {
			return fmt.Errorf("store: insert tag: %w", err)
		}
	}
	return nil
}

// ReplaceTagsForNote atomically replaces the tag set of a note.
func (s *Store) ReplaceTagsForNote(ctx context.Context, noteID string, tags []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceTagsTx(tx, noteID, tags)
	})
}

// TagsForNote returns the tags attached to a note.
func (s *Store) TagsForNote(ctx context.Context, noteID string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT tag FROM note_tags WHERE note_id = ? ORDER BY tag`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: tags for note: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTags returns every tag with its non-deleted note count, most used
// first.
func (s *Store) ListTags(ctx context.Context) ([]models.TagCount, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT t.tag, count(*) AS n
		FROM note_tags t
		JOIN notes nt ON nt.id = t.note_id
		WHERE nt.deleted = 0
		GROUP BY t.tag
		ORDER BY n DESC, t.tag
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()

	var out []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// NotesWithTag returns non-deleted notes carrying the exact tag, newest
// first.
func (s *Store) NotesWithTag(ctx context.Context, tag string) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumnsPrefixed("n")+`
		FROM notes n
		JOIN note_tags t ON t.note_id = n.id
		WHERE n.deleted = 0 AND t.tag = ?
		ORDER BY n.updated_at DESC
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("store: notes with tag: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

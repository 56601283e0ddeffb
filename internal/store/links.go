package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// replaceLinksTx swaps the outgoing link set of a note: delete old rows,
// bulk insert the new targets. Each inserted link gets a best-effort
// target_id resolution against current non-deleted titles; target_title
// stays authoritative so forward references survive unresolved.
func replaceLinksTx(tx *sql.Tx, sourceID string, links []models.NoteLink) error {
	if _, err := tx.Exec(`DELETE FROM note_links WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("store: delete links: %w", err)
	}
	if len(links) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO note_links (source_id, target_title, target_id)
		VALUES (?, ?, (SELECT id FROM notes WHERE title = ? AND deleted = 0 LIMIT 1))
	`)
	if err != nil {
		return fmt.Errorf("store: prepare link insert: %w", err)
	}
	defer stmt.Close()
	for _, l := range links {
		if l.TargetTitle == "" {
			continue
		}
		if _, err := stmt.Exec(sourceID, l.TargetTitle, l.TargetTitle); err != nil {
			return fmt.Errorf("store: insert link: %w", err)
		}
	}
	return nil
}

// ReplaceLinksForNote atomically replaces the outgoing links of a note.
func (s *Store) ReplaceLinksForNote(ctx context.Context, sourceID string, links []models.NoteLink) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceLinksTx(tx, sourceID, links)
	})
}

// LinksFromNote returns the outgoing links of a note.
func (s *Store) LinksFromNote(ctx context.Context, sourceID string) ([]models.NoteLink, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT source_id, target_title, target_id
		FROM note_links WHERE source_id = ? ORDER BY target_title
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("store: links from note: %w", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

// Backlinks finds every link pointing at the given title and resolves each
// link's source note. A nil Source means the linking note was deleted or
// never committed; the link itself is still reported.
func (s *Store) Backlinks(ctx context.Context, targetTitle string) ([]models.Backlink, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT source_id, target_title, target_id
		FROM note_links WHERE target_title = ? ORDER BY source_id
	`, targetTitle)
	if err != nil {
		return nil, fmt.Errorf("store: backlinks: %w", err)
	}
	links, err := scanLinks(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	out := make([]models.Backlink, 0, len(links))
	for _, l := range links {
		bl := models.Backlink{Link: l}
		src, err := s.GetNote(ctx, l.SourceID)
		switch {
		case err == nil:
			bl.Source = src
		case errors.Is(err, apperr.ErrNotFound):
			// Orphan link: tolerated, reported with a nil source.
		default:
			return nil, err
		}
		out = append(out, bl)
	}
	return out, nil
}

// GraphNode is a node in the note graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// GraphLink is a resolved edge between two notes.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph returns all non-deleted notes as nodes and all resolved links as
// edges, for the UI graph view. Unresolved forward references are omitted.
func (s *Store) Graph(ctx context.Context) ([]GraphNode, []GraphLink, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, title FROM notes WHERE deleted = 0`)
	if err != nil {
		return nil, nil, fmt.Errorf("store: graph nodes: %w", err)
	}
	var nodes []GraphNode
	for rows.Next() {
		var gn GraphNode
		if err := rows.Scan(&gn.ID, &gn.Title); err != nil {
			rows.Close()
			return nil, nil, err
		}
		nodes = append(nodes, gn)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	rows, err = s.conn.QueryContext(ctx, `
		SELECT l.source_id, l.target_id
		FROM note_links l
		JOIN notes src ON src.id = l.source_id AND src.deleted = 0
		JOIN notes dst ON dst.id = l.target_id AND dst.deleted = 0
		WHERE l.target_id IS NOT NULL
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("store: graph links: %w", err)
	}
	defer rows.Close()
	var edges []GraphLink
	for rows.Next() {
		var gl GraphLink
		if err := rows.Scan(&gl.Source, &gl.Target); err != nil {
			return nil, nil, err
		}
		edges = append(edges, gl)
	}
	return nodes, edges, rows.Err()
}

func scanLinks(rows *sql.Rows) ([]models.NoteLink, error) {
	var out []models.NoteLink
	for rows.Next() {
		var (
			l   models.NoteLink
			tid sql.NullString
		)
		if err := rows.Scan(&l.SourceID, &l.TargetTitle, &tid); err != nil {
			return nil, err
		}
		l.TargetID = tid.String
		out = append(out, l)
	}
	return out, rows.Err()
}

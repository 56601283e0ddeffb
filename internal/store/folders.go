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

// maxFolderDepth bounds every upward walk over parent pointers so cyclic or
// broken chains terminate with a partial path instead of looping forever.
const maxFolderDepth = 100

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// folder helpers can run standalone or inside a larger transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const folderColumns = `id, name, parent_id, path, sort_order, deleted, updated_at`

func scanFolder(row interface{ Scan(...any) error }) (models.Folder, error) {
	var (
		f      models.Folder
		parent sql.NullString
		ms     int64
	)
	if err := row.Scan(&f.ID, &f.Name, &parent, &f.Path, &f.SortOrder, &f.Deleted, &ms); err != nil {
		return models.Folder{}, err
	}
	f.ParentID = parent.String
	f.UpdatedAt = fromMillis(ms)
	return f, nil
}

func scanFolders(rows *sql.Rows) ([]models.Folder, error) {
	var out []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpsertFolder inserts or updates a folder and keeps the denormalized path
// cache consistent: the folder's own path is recomputed from its parent
// chain and every descendant path is rewritten in the same transaction. An
// upsert_folder entry is appended to the outbox.
func (s *Store) UpsertFolder(ctx context.Context, f models.Folder) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		parentPath := ""
		if f.ParentID != "" {
			p, err := folderPathQ(tx, f.ParentID)
			if err != nil {
				return err
			}
			parentPath = p
		}
		f.Path = parentPath + "/" + f.Name

		_, err := tx.Exec(`
			INSERT INTO local_folders (id, name, parent_id, path, sort_order, deleted, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name       = excluded.name,
				parent_id  = excluded.parent_id,
				path       = excluded.path,
				sort_order = excluded.sort_order,
				deleted    = excluded.deleted,
				updated_at = excluded.updated_at
		`, f.ID, f.Name, nullIfEmpty(f.ParentID), f.Path, f.SortOrder, f.Deleted, toMillis(f.UpdatedAt))
		if err != nil {
			return fmt.Errorf("store: upsert folder: %w", err)
		}

		if err := recomputeDescendantPaths(tx, f.ID, f.Path); err != nil {
			return err
		}

		payload, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("store: marshal folder payload: %w", err)
		}
		return enqueueOp(tx, f.ID, models.OpUpsertFolder, payload)
	})
}

// recomputeDescendantPaths rewrites the cached path of every folder below
// rootID. Descent is guarded against cycles with a visited set.
func recomputeDescendantPaths(tx dbtx, rootID, rootPath string) error {
	type frame struct {
		id   string
		path string
	}
	visited := map[string]struct{}{rootID: {}}
	stack := []frame{{rootID, rootPath}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows, err := tx.Query(`SELECT id, name FROM local_folders WHERE parent_id = ? AND deleted = 0`, cur.id)
		if err != nil {
			return fmt.Errorf("store: list children: %w", err)
		}
		var children []frame
		for rows.Next() {
			var id, name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return err
			}
			children = append(children, frame{id, cur.path + "/" + name})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, c := range children {
			if _, ok := visited[c.id]; ok {
				continue
			}
			visited[c.id] = struct{}{}
			if _, err := tx.Exec(`UPDATE local_folders SET path = ? WHERE id = ?`, c.path, c.id); err != nil {
				return fmt.Errorf("store: update child path: %w", err)
			}
			stack = append(stack, c)
		}
	}
	return nil
}

// folderPathQ walks parent pointers upward accumulating names into a
// root-anchored path like /Work/Projects/2024. The walk is capped at
// maxFolderDepth hops; a cyclic or broken chain yields the partial path
// collected so far.
func folderPathQ(q dbtx, folderID string) (string, error) {
	var names []string
	id := folderID
	for hop := 0; hop < maxFolderDepth && id != ""; hop++ {
		var (
			name   string
			parent sql.NullString
		)
		err := q.QueryRow(`SELECT name, parent_id FROM local_folders WHERE id = ?`, id).Scan(&name, &parent)
		if errors.Is(err, sql.ErrNoRows) {
			if id == folderID {
				return "", apperr.ErrNotFound
			}
			break // broken chain: parent vanished, return partial path
		}
		if err != nil {
			return "", fmt.Errorf("store: folder path: %w", err)
		}
		names = append(names, name)
		id = parent.String
	}

	path := ""
	for i := len(names) - 1; i >= 0; i-- {
		path += "/" + names[i]
	}
	return path, nil
}

// FolderPath computes the root-anchored path of a folder from its parent
// chain.
func (s *Store) FolderPath(ctx context.Context, folderID string) (string, error) {
	_ = ctx
	return folderPathQ(s.conn, folderID)
}

// FolderDepth counts hops from a folder to its root (a root folder has
// depth 0), with the same bounded-walk cycle guard as FolderPath.
func (s *Store) FolderDepth(ctx context.Context, folderID string) (int, error) {
	id := folderID
	depth := 0
	for hop := 0; hop < maxFolderDepth && id != ""; hop++ {
		var parent sql.NullString
		err := s.conn.QueryRowContext(ctx, `SELECT parent_id FROM local_folders WHERE id = ?`, id).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			if id == folderID {
				return 0, apperr.ErrNotFound
			}
			break
		}
		if err != nil {
			return 0, fmt.Errorf("store: folder depth: %w", err)
		}
		if !parent.Valid || parent.String == "" {
			return depth, nil
		}
		id = parent.String
		depth++
	}
	return depth, nil
}

// FolderSubtree collects a folder and all its descendants depth-first. A
// visited set protects against cycles introduced by data corruption.
func (s *Store) FolderSubtree(ctx context.Context, rootID string) ([]models.Folder, error) {
	var out []models.Folder
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = subtreeTx(tx, rootID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func subtreeTx(tx dbtx, rootID string) ([]models.Folder, error) {
	root, err := getFolderQ(tx, rootID)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{rootID: {}}
	out := []models.Folder{*root}
	stack := []string{rootID}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows, err := tx.Query(`SELECT `+folderColumns+` FROM local_folders WHERE parent_id = ? AND deleted = 0 ORDER BY sort_order, name`, cur)
		if err != nil {
			return nil, fmt.Errorf("store: subtree children: %w", err)
		}
		children, err := scanFolders(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if _, ok := visited[c.ID]; ok {
				continue
			}
			visited[c.ID] = struct{}{}
			out = append(out, c)
			stack = append(stack, c.ID)
		}
	}
	return out, nil
}

func getFolderQ(q dbtx, id string) (*models.Folder, error) {
	row := q.QueryRow(`SELECT `+folderColumns+` FROM local_folders WHERE id = ? AND deleted = 0`, id)
	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get folder: %w", err)
	}
	return &f, nil
}

// GetFolder returns a non-deleted folder by id.
func (s *Store) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	_ = ctx
	return getFolderQ(s.conn, id)
}

// ListFolders returns the non-deleted children of parentID (roots when
// parentID is empty), ordered by sort order then name.
func (s *Store) ListFolders(ctx context.Context, parentID string) ([]models.Folder, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == "" {
		rows, err = s.conn.QueryContext(ctx,
			`SELECT `+folderColumns+` FROM local_folders WHERE parent_id IS NULL AND deleted = 0 ORDER BY sort_order, name`)
	} else {
		rows, err = s.conn.QueryContext(ctx,
			`SELECT `+folderColumns+` FROM local_folders WHERE parent_id = ? AND deleted = 0 ORDER BY sort_order, name`, parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list folders: %w", err)
	}
	defer rows.Close()
	return scanFolders(rows)
}

// MoveNoteToFolder files a note into a folder, replacing any prior
// association (a note lives in at most one folder). An empty folderID
// removes the association, returning the note to "unfiled".
func (s *Store) MoveNoteToFolder(ctx context.Context, noteID, folderID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if folderID == "" {
			_, err := tx.Exec(`DELETE FROM note_folders WHERE note_id = ?`, noteID)
			if err != nil {
				return fmt.Errorf("store: unfile note: %w", err)
			}
			return nil
		}
		if _, err := getFolderQ(tx, folderID); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO note_folders (note_id, folder_id, added_at)
			VALUES (?, ?, ?)
			ON CONFLICT(note_id) DO UPDATE SET
				folder_id = excluded.folder_id,
				added_at  = excluded.added_at
		`, noteID, folderID, toMillis(time.Now().UTC()))
		if err != nil {
			return fmt.Errorf("store: file note: %w", err)
		}
		return nil
	})
}

// FolderForNote returns the folder a note is filed in, or nil when unfiled
// (or when the folder row has since been deleted — orphans are tolerated).
func (s *Store) FolderForNote(ctx context.Context, noteID string) (*models.Folder, error) {
	var folderID string
	err := s.conn.QueryRowContext(ctx, `SELECT folder_id FROM note_folders WHERE note_id = ?`, noteID).Scan(&folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: folder for note: %w", err)
	}
	f, err := getFolderQ(s.conn, folderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return f, err
}

// NotesInFolder returns the non-deleted notes filed in a folder, newest
// first.
func (s *Store) NotesInFolder(ctx context.Context, folderID string) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumnsPrefixed("n")+`
		FROM notes n
		JOIN note_folders nf ON nf.note_id = n.id
		WHERE nf.folder_id = ? AND n.deleted = 0
		ORDER BY n.updated_at DESC
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("store: notes in folder: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// DeleteFolderTree soft-deletes a folder and everything in it: every
// descendant folder, plus the notes filed in any of them (with delete_note
// tombstones in the outbox). All within one transaction.
func (s *Store) DeleteFolderTree(ctx context.Context, rootID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		folders, err := subtreeTx(tx, rootID)
		if err != nil {
			return err
		}
		now := toMillis(time.Now().UTC())

		for _, f := range folders {
			if _, err := tx.Exec(`UPDATE local_folders SET deleted = 1, updated_at = ? WHERE id = ?`, now, f.ID); err != nil {
				return fmt.Errorf("store: delete folder: %w", err)
			}
			if err := enqueueOp(tx, f.ID, models.OpDeleteFolder, nil); err != nil {
				return err
			}

			rows, err := tx.Query(`SELECT note_id FROM note_folders WHERE folder_id = ?`, f.ID)
			if err != nil {
				return fmt.Errorf("store: notes in deleted folder: %w", err)
			}
			var noteIDs []string
			for rows.Next() {
				var id string
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return err
				}
				noteIDs = append(noteIDs, id)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return err
			}
			rows.Close()

			for _, noteID := range noteIDs {
				res, err := tx.Exec(`UPDATE notes SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`, now, noteID)
				if err != nil {
					return fmt.Errorf("store: delete filed note: %w", err)
				}
				// Already-deleted notes have a tombstone queued; do not
				// enqueue a duplicate.
				if affected, _ := res.RowsAffected(); affected == 0 {
					continue
				}
				ftsDelete(tx, noteID)
				if err := enqueueOp(tx, noteID, models.OpDeleteNote, nil); err != nil {
					return err
				}
			}
			if _, err := tx.Exec(`DELETE FROM note_folders WHERE folder_id = ?`, f.ID); err != nil {
				return fmt.Errorf("store: clear folder relation: %w", err)
			}
		}
		return nil
	})
}

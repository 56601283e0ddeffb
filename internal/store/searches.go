package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

const savedSearchColumns = `id, name, query, search_type, parameters, usage_count, last_used_at, created_at`

func scanSavedSearch(row interface{ Scan(...any) error }) (models.SavedSearch, error) {
	var (
		ss       models.SavedSearch
		params   sql.NullString
		lastUsed sql.NullInt64
		created  int64
	)
	if err := row.Scan(&ss.ID, &ss.Name, &ss.Query, &ss.SearchType, &params, &ss.UsageCount, &lastUsed, &created); err != nil {
		return models.SavedSearch{}, err
	}
	if params.Valid {
		ss.Parameters = []byte(params.String)
	}
	ss.LastUsedAt = fromMillisPtr(lastUsed)
	ss.CreatedAt = fromMillis(created)
	return ss, nil
}

// SaveSearch inserts or replaces a saved search by id. Usage counters are
// preserved on update.
func (s *Store) SaveSearch(ctx context.Context, ss models.SavedSearch) error {
	var params any
	if ss.Parameters != nil {
		params = string(ss.Parameters)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO saved_searches (id, name, query, search_type, parameters, usage_count, last_used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name        = excluded.name,
			query       = excluded.query,
			search_type = excluded.search_type,
			parameters  = excluded.parameters
	`, ss.ID, ss.Name, ss.Query, ss.SearchType, params, ss.UsageCount, toMillisPtr(ss.LastUsedAt), toMillis(ss.CreatedAt))
	if err != nil {
		return fmt.Errorf("store: save search: %w", err)
	}
	return nil
}

// GetSavedSearch returns a saved search by id.
func (s *Store) GetSavedSearch(ctx context.Context, id string) (*models.SavedSearch, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+savedSearchColumns+` FROM saved_searches WHERE id = ?`, id)
	ss, err := scanSavedSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get saved search: %w", err)
	}
	return &ss, nil
}

// ListSavedSearches returns all saved searches ranked by usage frequency,
// then recency of use.
func (s *Store) ListSavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+savedSearchColumns+` FROM saved_searches
		ORDER BY usage_count DESC, last_used_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list saved searches: %w", err)
	}
	defer rows.Close()

	var out []models.SavedSearch
	for rows.Next() {
		ss, err := scanSavedSearch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

// TouchSavedSearch records a use: usage count up, last used now.
func (s *Store) TouchSavedSearch(ctx context.Context, id string, now time.Time) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE saved_searches
		SET usage_count = usage_count + 1, last_used_at = ?
		WHERE id = ?
	`, toMillis(now), id)
	if err != nil {
		return fmt.Errorf("store: touch saved search: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteSavedSearch removes a saved search. Saved searches are local-only,
// so this is a hard delete.
func (s *Store) DeleteSavedSearch(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete saved search: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

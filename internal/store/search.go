package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/models"
)

// SearchNotes runs a text search over non-deleted notes, newest first.
//
// A query starting with '#' is a tag-filter query: it matches notes whose
// tags contain the remainder as a case-insensitive substring, bypassing the
// text index entirely. Anything else is tokenized into whitespace-separated
// terms (quotes stripped); every term must prefix-match against title+body.
// If the index query fails for any reason the LIKE fallback answers with
// the same filter and ordering contract — index failures never surface.
func (s *Store) SearchNotes(ctx context.Context, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	query = strings.TrimSpace(query)

	if rest, ok := strings.CutPrefix(query, "#"); ok {
		return s.tagSearch(ctx, rest, limit)
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	if notes, err := s.ftsSearch(ctx, terms, limit); err == nil {
		return notes, nil
	}
	return s.likeSearch(ctx, terms, limit)
}

// tokenize splits a query into terms, stripping quote characters.
func tokenize(query string) []string {
	var out []string
	for _, f := range strings.Fields(query) {
		f = strings.Trim(f, `"'`)
		f = strings.ReplaceAll(f, `"`, "")
		f = strings.ReplaceAll(f, `'`, "")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// likeSearch is the substring-scan fallback: every term must appear in
// title or body. Wildcard metacharacters in terms are escaped.
func (s *Store) likeSearch(ctx context.Context, terms []string, limit int) ([]models.Note, error) {
	var (
		conds []string
		args  []any
	)
	for _, t := range terms {
		pattern := "%" + escapeLike(t) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE deleted = 0 AND `+strings.Join(conds, " AND ")+`
		ORDER BY updated_at DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("store: like search: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// tagSearch matches notes whose tags contain q as a case-insensitive
// substring.
func (s *Store) tagSearch(ctx context.Context, q string, limit int) ([]models.Note, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT DISTINCT `+noteColumnsPrefixed("n")+`
		FROM notes n
		JOIN note_tags t ON t.note_id = n.id
		WHERE n.deleted = 0 AND lower(t.tag) LIKE ? ESCAPE '\'
		ORDER BY n.updated_at DESC
		LIMIT ?
	`, "%"+escapeLike(strings.ToLower(q))+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("store: tag search: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// escapeLike escapes LIKE metacharacters so terms match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/starford/laguz/internal/models"
)

// enqueueOp appends an entry to the outbox. It is deliberately tx-scoped:
// every caller runs it inside the transaction of the primary mutation it
// represents, so the two commit or roll back together.
func enqueueOp(tx *sql.Tx, entityID string, kind models.OpKind, payload []byte) error {
	var p any
	if payload != nil {
		p = string(payload)
	}
	_, err := tx.Exec(`
		INSERT INTO pending_ops (entity_id, kind, payload, created_at)
		VALUES (?, ?, ?, ?)
	`, entityID, string(kind), p, toMillis(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("store: enqueue op: %w", err)
	}
	return nil
}

// ListPending returns all outbox entries in ascending id order (FIFO).
func (s *Store) ListPending(ctx context.Context) ([]models.PendingOp, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, entity_id, kind, payload, created_at
		FROM pending_ops ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list pending: %w", err)
	}
	defer rows.Close()
	return scanOps(rows)
}

// PendingCount returns the number of outbox entries.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT count(*) FROM pending_ops`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: pending count: %w", err)
	}
	return n, nil
}

// DrainAndDelete removes exactly the entries whose ids are in the given
// set (bulk acknowledgement). An empty set is a no-op. Entries outside the
// set are untouched even under concurrent enqueue.
func (s *Store) DrainAndDelete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM pending_ops WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("store: drain and delete: %w", err)
	}
	return nil
}

// DequeueAll reads every pending entry and deletes them in one transaction,
// returning what was read. Entries enqueued concurrently after the read
// keep ids above the returned maximum and survive the delete.
func (s *Store) DequeueAll(ctx context.Context) ([]models.PendingOp, error) {
	var ops []models.PendingOp
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT id, entity_id, kind, payload, created_at
			FROM pending_ops ORDER BY id ASC
		`)
		if err != nil {
			return fmt.Errorf("store: dequeue read: %w", err)
		}
		ops, err = scanOps(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			return nil
		}
		maxID := ops[len(ops)-1].ID
		if _, err := tx.Exec(`DELETE FROM pending_ops WHERE id <= ?`, maxID); err != nil {
			return fmt.Errorf("store: dequeue delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func scanOps(rows *sql.Rows) ([]models.PendingOp, error) {
	var out []models.PendingOp
	for rows.Next() {
		var (
			op      models.PendingOp
			kind    string
			payload sql.NullString
			ms      int64
		)
		if err := rows.Scan(&op.ID, &op.EntityID, &kind, &payload, &ms); err != nil {
			return nil, err
		}
		op.Kind = models.OpKind(kind)
		if payload.Valid {
			op.Payload = []byte(payload.String)
		}
		op.CreatedAt = fromMillis(ms)
		out = append(out, op)
	}
	return out, rows.Err()
}

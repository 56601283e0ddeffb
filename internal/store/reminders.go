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

const reminderColumns = `id, note_id, type, remind_at, timezone, latitude, longitude, radius,
	recurrence_pattern, recurrence_interval, recurrence_end_date,
	snoozed_until, snooze_count, last_triggered, trigger_count, is_active`

func scanReminder(row interface{ Scan(...any) error }) (models.Reminder, error) {
	var (
		r                           models.Reminder
		typ                         string
		remindAt, recEnd            sql.NullInt64
		snoozed, triggered          sql.NullInt64
		lat, lon, radius            sql.NullFloat64
	)
	err := row.Scan(&r.ID, &r.NoteID, &typ, &remindAt, &r.Timezone, &lat, &lon, &radius,
		&r.RecurrencePattern, &r.RecurrenceInterval, &recEnd,
		&snoozed, &r.SnoozeCount, &triggered, &r.TriggerCount, &r.IsActive)
	if err != nil {
		return models.Reminder{}, err
	}
	r.Type = models.ReminderType(typ)
	r.RemindAt = fromMillisPtr(remindAt)
	r.RecurrenceEndDate = fromMillisPtr(recEnd)
	r.SnoozedUntil = fromMillisPtr(snoozed)
	r.LastTriggered = fromMillisPtr(triggered)
	if lat.Valid {
		r.Latitude = &lat.Float64
	}
	if lon.Valid {
		r.Longitude = &lon.Float64
	}
	if radius.Valid {
		r.Radius = &radius.Float64
	}
	return r, nil
}

func scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	var out []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// CreateReminder inserts a reminder and fills in the storage-assigned id.
func (s *Store) CreateReminder(ctx context.Context, r *models.Reminder) error {
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO note_reminders (note_id, type, remind_at, timezone, latitude, longitude, radius,
			recurrence_pattern, recurrence_interval, recurrence_end_date,
			snoozed_until, snooze_count, last_triggered, trigger_count, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.NoteID, string(r.Type), toMillisPtr(r.RemindAt), r.Timezone,
		nullFloat(r.Latitude), nullFloat(r.Longitude), nullFloat(r.Radius),
		r.RecurrencePattern, r.RecurrenceInterval, toMillisPtr(r.RecurrenceEndDate),
		toMillisPtr(r.SnoozedUntil), r.SnoozeCount, toMillisPtr(r.LastTriggered), r.TriggerCount, r.IsActive)
	if err != nil {
		return fmt.Errorf("store: create reminder: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: reminder id: %w", err)
	}
	return nil
}

// UpdateReminder rewrites a reminder row by id.
func (s *Store) UpdateReminder(ctx context.Context, r models.Reminder) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE note_reminders SET
			note_id = ?, type = ?, remind_at = ?, timezone = ?,
			latitude = ?, longitude = ?, radius = ?,
			recurrence_pattern = ?, recurrence_interval = ?, recurrence_end_date = ?,
			snoozed_until = ?, snooze_count = ?, last_triggered = ?, trigger_count = ?, is_active = ?
		WHERE id = ?
	`, r.NoteID, string(r.Type), toMillisPtr(r.RemindAt), r.Timezone,
		nullFloat(r.Latitude), nullFloat(r.Longitude), nullFloat(r.Radius),
		r.RecurrencePattern, r.RecurrenceInterval, toMillisPtr(r.RecurrenceEndDate),
		toMillisPtr(r.SnoozedUntil), r.SnoozeCount, toMillisPtr(r.LastTriggered), r.TriggerCount, r.IsActive,
		r.ID)
	if err != nil {
		return fmt.Errorf("store: update reminder: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetReminder returns a reminder by id.
func (s *Store) GetReminder(ctx context.Context, id int64) (*models.Reminder, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM note_reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get reminder: %w", err)
	}
	return &r, nil
}

// RemindersForNote returns the active reminders attached to a note.
func (s *Store) RemindersForNote(ctx context.Context, noteID string) ([]models.Reminder, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM note_reminders WHERE note_id = ? AND is_active = 1 ORDER BY id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: reminders for note: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// DueReminders returns active reminders due at or before now. A snoozed
// reminder is due only once its snooze expires.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	ms := toMillis(now)
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+reminderColumns+` FROM note_reminders
		WHERE is_active = 1 AND (
			(snoozed_until IS NOT NULL AND snoozed_until <= ?) OR
			(snoozed_until IS NULL AND remind_at IS NOT NULL AND remind_at <= ?)
		)
		ORDER BY remind_at
	`, ms, ms)
	if err != nil {
		return nil, fmt.Errorf("store: due reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// SnoozeReminder pushes an active reminder out to the given time and bumps
// its snooze count.
func (s *Store) SnoozeReminder(ctx context.Context, id int64, until time.Time) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE note_reminders
		SET snoozed_until = ?, snooze_count = snooze_count + 1
		WHERE id = ? AND is_active = 1
	`, toMillis(until), id)
	if err != nil {
		return fmt.Errorf("store: snooze reminder: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeactivateReminder dismisses a reminder. The row is retained.
func (s *Store) DeactivateReminder(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE note_reminders SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deactivate reminder: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// MarkTriggered records a firing: last_triggered, trigger count, and any
// pending snooze is consumed.
func (s *Store) MarkTriggered(ctx context.Context, id int64, at time.Time) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE note_reminders
		SET last_triggered = ?, trigger_count = trigger_count + 1, snoozed_until = NULL
		WHERE id = ?
	`, toMillis(at), id)
	if err != nil {
		return fmt.Errorf("store: mark triggered: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// SweepOrphanReminders hard-deletes reminders whose note is gone or
// soft-deleted. Reminders are local-only state, so unlike notes they need
// no tombstones. Returns the number of rows removed.
func (s *Store) SweepOrphanReminders(ctx context.Context) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		DELETE FROM note_reminders
		WHERE note_id NOT IN (SELECT id FROM notes WHERE deleted = 0)
	`)
	if err != nil {
		return 0, fmt.Errorf("store: sweep reminders: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

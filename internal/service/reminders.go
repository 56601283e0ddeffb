package service

import (
	"context"
	"errors"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// CreateReminder validates the input and attaches a reminder to a note.
func (s *Service) CreateReminder(ctx context.Context, in ReminderInput) (*models.Reminder, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	if _, err := s.store.GetNote(ctx, in.NoteID); err != nil {
		return nil, err
	}

	r := models.Reminder{
		NoteID:             in.NoteID,
		Type:               models.ReminderType(in.Type),
		Timezone:           in.Timezone,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		Radius:             in.Radius,
		RecurrencePattern:  in.RecurrencePattern,
		RecurrenceInterval: in.RecurrenceInterval,
		IsActive:           true,
	}

	var err error
	if r.RemindAt, err = parseTimePtr(in.RemindAt); err != nil {
		return nil, apperr.Validation(err)
	}
	if r.RecurrenceEndDate, err = parseTimePtr(in.RecurrenceEndDate); err != nil {
		return nil, apperr.Validation(err)
	}

	if err := s.store.CreateReminder(ctx, &r); err != nil {
		return nil, err
	}
	s.notifyChange(ctx, "reminder", "upserted", in.NoteID)
	return &r, nil
}

func parseTimePtr(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errors.New("timestamps must be RFC 3339")
	}
	u := t.UTC()
	return &u, nil
}

// RemindersForNote lists the active reminders of a note.
func (s *Service) RemindersForNote(ctx context.Context, noteID string) ([]models.Reminder, error) {
	return s.store.RemindersForNote(ctx, noteID)
}

// DueReminders lists reminders due at or before now.
func (s *Service) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return s.store.DueReminders(ctx, now)
}

// SnoozeReminder pushes a reminder out to the given time.
func (s *Service) SnoozeReminder(ctx context.Context, id int64, until time.Time) error {
	if until.IsZero() {
		return apperr.Validation(errors.New("snooze time is required"))
	}
	return s.store.SnoozeReminder(ctx, id, until)
}

// DismissReminder deactivates a reminder without deleting it.
func (s *Service) DismissReminder(ctx context.Context, id int64) error {
	if err := s.store.DeactivateReminder(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "reminder", "deleted", "")
	return nil
}

// MarkReminderTriggered records that a reminder fired.
func (s *Service) MarkReminderTriggered(ctx context.Context, id int64, at time.Time) error {
	return s.store.MarkTriggered(ctx, id, at)
}

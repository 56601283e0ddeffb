package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

func timeReminder(noteID string, at time.Time) *models.Reminder {
	return &models.Reminder{
		NoteID:   noteID,
		Type:     models.ReminderTime,
		RemindAt: &at,
		IsActive: true,
	}
}

func TestCreateAndGetReminder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)

	mustUpsert(t, st, "n1", "N", "b", at, nil, nil)

	r := timeReminder("n1", at.Add(time.Hour))
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}
	if r.ID == 0 {
		t.Fatal("id not assigned")
	}

	got, err := st.GetReminder(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReminder: %v", err)
	}
	if got.NoteID != "n1" || got.Type != models.ReminderTime {
		t.Errorf("reminder = %+v", got)
	}
	if got.RemindAt == nil || !got.RemindAt.Equal(at.Add(time.Hour)) {
		t.Errorf("remind_at = %v", got.RemindAt)
	}
}

func TestLocationReminderFields(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	lat, lon, radius := 52.52, 13.405, 150.0
	r := &models.Reminder{
		NoteID:    "n1",
		Type:      models.ReminderLocation,
		Latitude:  &lat,
		Longitude: &lon,
		Radius:    &radius,
		IsActive:  true,
	}
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetReminder(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Latitude == nil || *got.Latitude != lat || got.Radius == nil || *got.Radius != radius {
		t.Errorf("location fields = %+v", got)
	}
	if got.RemindAt != nil {
		t.Errorf("remind_at = %v, want nil", got.RemindAt)
	}
}

func TestDueReminders(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	past := timeReminder("n1", now.Add(-time.Hour))
	future := timeReminder("n1", now.Add(time.Hour))
	if err := st.CreateReminder(ctx, past); err != nil {
		t.Fatal(err)
	}
	if err := st.CreateReminder(ctx, future); err != nil {
		t.Fatal(err)
	}

	due, err := st.DueReminders(ctx, now)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Errorf("due = %+v, want only the past reminder", due)
	}
}

func TestSnoozeDefersDue(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	r := timeReminder("n1", now.Add(-time.Hour))
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}

	if err := st.SnoozeReminder(ctx, r.ID, now.Add(30*time.Minute)); err != nil {
		t.Fatalf("SnoozeReminder: %v", err)
	}

	// Snoozed past its original time: not due now.
	due, _ := st.DueReminders(ctx, now)
	if len(due) != 0 {
		t.Errorf("snoozed reminder still due: %+v", due)
	}

	// Due again once the snooze expires.
	due, _ = st.DueReminders(ctx, now.Add(31*time.Minute))
	if len(due) != 1 {
		t.Errorf("reminder not due after snooze expiry")
	}

	got, _ := st.GetReminder(ctx, r.ID)
	if got.SnoozeCount != 1 {
		t.Errorf("snooze_count = %d, want 1", got.SnoozeCount)
	}
}

func TestUpdateReminder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)

	r := timeReminder("n1", at)
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}

	later := at.Add(2 * time.Hour)
	r.RemindAt = &later
	r.Timezone = "Europe/Berlin"
	if err := st.UpdateReminder(ctx, *r); err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}

	got, err := st.GetReminder(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RemindAt == nil || !got.RemindAt.Equal(later) || got.Timezone != "Europe/Berlin" {
		t.Errorf("reminder after update = %+v", got)
	}

	r.ID = 9999
	if err := st.UpdateReminder(ctx, *r); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing reminder = %v, want ErrNotFound", err)
	}
}

func TestSnoozeInactiveReminder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	r := timeReminder("n1", now)
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := st.DeactivateReminder(ctx, r.ID); err != nil {
		t.Fatal(err)
	}

	if err := st.SnoozeReminder(ctx, r.ID, now.Add(time.Hour)); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("snooze dismissed reminder = %v, want ErrNotFound", err)
	}
}

func TestDeactivateReminder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "n1", "N", "b", now, nil, nil)
	r := timeReminder("n1", now.Add(-time.Minute))
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}

	if err := st.DeactivateReminder(ctx, r.ID); err != nil {
		t.Fatalf("DeactivateReminder: %v", err)
	}

	// Dismissed reminders leave both listings.
	if due, _ := st.DueReminders(ctx, now); len(due) != 0 {
		t.Error("dismissed reminder still due")
	}
	if active, _ := st.RemindersForNote(ctx, "n1"); len(active) != 0 {
		t.Error("dismissed reminder still listed for note")
	}

	// But the row survives.
	if _, err := st.GetReminder(ctx, r.ID); err != nil {
		t.Errorf("dismissed reminder row gone: %v", err)
	}
}

func TestMarkTriggeredConsumesSnooze(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	r := timeReminder("n1", now)
	if err := st.CreateReminder(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := st.SnoozeReminder(ctx, r.ID, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := st.MarkTriggered(ctx, r.ID, now); err != nil {
		t.Fatalf("MarkTriggered: %v", err)
	}

	got, _ := st.GetReminder(ctx, r.ID)
	if got.TriggerCount != 1 {
		t.Errorf("trigger_count = %d", got.TriggerCount)
	}
	if got.SnoozedUntil != nil {
		t.Errorf("snoozed_until = %v, want nil after trigger", got.SnoozedUntil)
	}
	if got.LastTriggered == nil || !got.LastTriggered.Equal(now) {
		t.Errorf("last_triggered = %v", got.LastTriggered)
	}
}

func TestSweepOrphanReminders(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "alive", "Alive", "b", now, nil, nil)
	mustUpsert(t, st, "doomed", "Doomed", "b", now, nil, nil)

	kept := timeReminder("alive", now.Add(time.Hour))
	orphan := timeReminder("doomed", now.Add(time.Hour))
	ghost := timeReminder("never-existed", now.Add(time.Hour))
	for _, r := range []*models.Reminder{kept, orphan, ghost} {
		if err := st.CreateReminder(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	if err := st.SoftDeleteNote(ctx, "doomed"); err != nil {
		t.Fatal(err)
	}

	n, err := st.SweepOrphanReminders(ctx)
	if err != nil {
		t.Fatalf("SweepOrphanReminders: %v", err)
	}
	if n != 2 {
		t.Errorf("swept = %d, want 2", n)
	}

	if _, err := st.GetReminder(ctx, kept.ID); err != nil {
		t.Errorf("live reminder swept: %v", err)
	}
	if _, err := st.GetReminder(ctx, orphan.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("orphan survived sweep: %v", err)
	}
}

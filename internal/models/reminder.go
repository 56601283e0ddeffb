package models

import "time"

// ReminderType distinguishes the three reminder flavours.
type ReminderType string

const (
	ReminderTime      ReminderType = "time"
	ReminderLocation  ReminderType = "location"
	ReminderRecurring ReminderType = "recurring"
)

// Reminder is attached to a note. Dismissing a reminder deactivates it
// rather than deleting the row; reminders whose note is gone are removed by
// the periodic orphan sweep.
type Reminder struct {
	ID     int64        `json:"id"`
	NoteID string       `json:"note_id"`
	Type   ReminderType `json:"type"`

	RemindAt *time.Time `json:"remind_at,omitempty"`
	Timezone string     `json:"timezone,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    *float64 `json:"radius,omitempty"`

	RecurrencePattern  string     `json:"recurrence_pattern,omitempty"`
	RecurrenceInterval int        `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date,omitempty"`

	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	SnoozeCount  int        `json:"snooze_count"`

	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	TriggerCount  int        `json:"trigger_count"`

	IsActive bool `json:"is_active"`
}

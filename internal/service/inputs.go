package service

import (
	"encoding/json"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/models"
)

// NoteInput is the write-boundary shape for note upserts. Tags and Links
// nil mean "derive from body"; non-nil (including empty) replaces the
// stored set.
type NoteInput struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Body              string   `json:"body"`
	EncryptedMetadata string   `json:"encrypted_metadata"`
	IsPinned          bool     `json:"is_pinned"`
	Tags              []string `json:"tags"`
	Links             []string `json:"links"`
}

// Validate rejects malformed notes before any transaction opens.
func (in NoteInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Body) == "" {
		return errors.New("title or body is required")
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.ID, validation.Length(0, 64)),
		validation.Field(&in.Title, validation.Length(0, 512)),
	)
}

// FolderInput is the write-boundary shape for folder creation and moves.
type FolderInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ParentID  string `json:"parent_id"`
	SortOrder int    `json:"sort_order"`
}

// Validate rejects malformed folders. Names may not contain the path
// separator, which would corrupt the cached paths.
func (in FolderInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255),
			validation.By(noSlash)),
		validation.Field(&in.ID, validation.Length(0, 64)),
	)
}

func noSlash(value interface{}) error {
	s, _ := value.(string)
	if strings.Contains(s, "/") {
		return errors.New("must not contain '/'")
	}
	return nil
}

// ReminderInput is the write-boundary shape for reminders. Type-specific
// fields are required per type.
type ReminderInput struct {
	NoteID string `json:"note_id"`
	Type   string `json:"type"`

	RemindAt string `json:"remind_at"` // RFC 3339
	Timezone string `json:"timezone"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`

	RecurrencePattern  string `json:"recurrence_pattern"`
	RecurrenceInterval int    `json:"recurrence_interval"`
	RecurrenceEndDate  string `json:"recurrence_end_date"` // RFC 3339
}

// Validate checks the common fields and the per-type requirements.
func (in ReminderInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.NoteID, validation.Required),
		validation.Field(&in.Type, validation.Required, validation.In(
			string(models.ReminderTime), string(models.ReminderLocation), string(models.ReminderRecurring))),
	)
	if err != nil {
		return err
	}

	switch models.ReminderType(in.Type) {
	case models.ReminderTime:
		if in.RemindAt == "" {
			return errors.New("remind_at is required for time reminders")
		}
	case models.ReminderLocation:
		if in.Latitude == nil || in.Longitude == nil || in.Radius == nil {
			return errors.New("latitude, longitude, and radius are required for location reminders")
		}
	case models.ReminderRecurring:
		if in.RecurrencePattern == "" || in.RemindAt == "" {
			return errors.New("recurrence_pattern and remind_at are required for recurring reminders")
		}
	}
	return nil
}

// SavedSearchInput is the write-boundary shape for saved searches.
type SavedSearchInput struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Query      string          `json:"query"`
	SearchType string          `json:"search_type"`
	Parameters json.RawMessage `json:"parameters"`
}

// Validate rejects malformed saved searches.
func (in SavedSearchInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Query, validation.Required),
		validation.Field(&in.SearchType, validation.In(models.SearchTypeText, models.SearchTypeTag)),
	)
}

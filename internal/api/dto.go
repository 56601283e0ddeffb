package api

import (
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/service"
	"github.com/starford/laguz/internal/store"
)

// NoteDetail is the full note response type (aliased from the service layer).
type NoteDetail = service.NoteDetail

// NoteListResponse wraps paginated note listings. NextCursor is the
// updated_at of the last note, fed back as ?cursor= for the next page.
type NoteListResponse struct {
	Notes      []models.Note `json:"notes" validate:"required"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ReplaceTagsRequest is the request body for PUT /notes/{id}/tags.
type ReplaceTagsRequest struct {
	Tags []string `json:"tags" validate:"required"`
}

// ReplaceLinksRequest is the request body for PUT /notes/{id}/links.
type ReplaceLinksRequest struct {
	Links []string `json:"links" validate:"required"`
}

// MoveToFolderRequest is the request body for PUT /notes/{id}/folder.
// An empty folder_id unfiles the note.
type MoveToFolderRequest struct {
	FolderID string `json:"folder_id"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []models.Note `json:"results" validate:"required"`
}

// SnoozeRequest is the request body for POST /reminders/{id}/snooze.
type SnoozeRequest struct {
	Until string `json:"until" example:"2026-01-02T15:04:05Z" validate:"required"`
}

// AckRequest is the request body for POST /sync/ack.
type AckRequest struct {
	IDs []int64 `json:"ids" validate:"required"`
}

// PendingResponse wraps the outbox listing for the sync engine.
type PendingResponse struct {
	Ops []models.PendingOp `json:"ops" validate:"required"`
}

// FolderTreeResponse wraps a folder subtree.
type FolderTreeResponse struct {
	Path    string          `json:"path" example:"/Work/Projects"`
	Folders []models.Folder `json:"folders" validate:"required"`
}

// GraphResponse wraps the note graph.
type GraphResponse struct {
	Nodes []store.GraphNode `json:"nodes" validate:"required"`
	Links []store.GraphLink `json:"links" validate:"required"`
}

// Package models defines the domain types for Laguz.
package models

import "time"

// Note is the canonical note entity. IDs are client-generated and stable;
// UpdatedAt is authoritative for ordering. Notes are never hard-deleted by
// normal operations, only marked Deleted so sync reconciliation can see the
// tombstone.
type Note struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Body              string    `json:"body"`
	EncryptedMetadata string    `json:"encrypted_metadata,omitempty"`
	IsPinned          bool      `json:"is_pinned"`
	Deleted           bool      `json:"deleted"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NoteLink is a wiki-style link from a source note to a target identified by
// title. TargetTitle is authoritative and may reference a note that does not
// exist yet; TargetID is a best-effort resolution cache.
type NoteLink struct {
	SourceID    string `json:"source_id"`
	TargetTitle string `json:"target_title"`
	TargetID    string `json:"target_id,omitempty"`
}

// Backlink pairs an incoming link with its resolved source note. Source is
// nil when the linking note has been deleted or never committed.
type Backlink struct {
	Link   NoteLink `json:"link"`
	Source *Note    `json:"source,omitempty"`
}

// TagCount is a tag with the number of non-deleted notes carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

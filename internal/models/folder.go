package models

import "time"

// Folder is a node in the self-referential folder hierarchy. ParentID empty
// means root. Path is a cached materialization of the parent chain
// ("/Work/Projects/2024"); it is recomputed on rename or re-parent.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	Path      string    `json:"path"`
	SortOrder int       `json:"sort_order"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}

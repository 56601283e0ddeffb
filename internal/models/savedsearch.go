package models

import (
	"encoding/json"
	"time"
)

// Search types for saved searches.
const (
	SearchTypeText = "text"
	SearchTypeTag  = "tag"
)

// SavedSearch is a named, persisted query definition with usage-frequency
// tracking for ranking.
type SavedSearch struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Query      string          `json:"query"`
	SearchType string          `json:"search_type"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	UsageCount int             `json:"usage_count"`
	LastUsedAt *time.Time      `json:"last_used_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

package models

import (
	"encoding/json"
	"time"
)

// OpKind identifies the type of a pending operation.
type OpKind string

// Known operation kinds. The set is extensible; consumers must tolerate
// kinds they do not recognise.
const (
	OpUpsertNote   OpKind = "upsert_note"
	OpDeleteNote   OpKind = "delete_note"
	OpUpsertFolder OpKind = "upsert_folder"
	OpDeleteFolder OpKind = "delete_folder"
)

// PendingOp is one entry in the outbox queue: a mutation that has not yet
// been pushed to the remote sync counterpart. IDs are assigned by storage
// and strictly ordered; consumers process in ascending ID order.
type PendingOp struct {
	ID        int64           `json:"id"`
	EntityID  string          `json:"entity_id"`
	Kind      OpKind          `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// ChangesQueue is the durable queue carrying DocumentChanged events.
const ChangesQueue = "documents.changed"

// Actions carried by DocumentChanged.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// DocumentChanged is published after a create, update or delete succeeded.
// It is enough for downstream consumers to audit or invalidate caches
// without querying the document store.
type DocumentChanged struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	ParentID   string    `json:"parent_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

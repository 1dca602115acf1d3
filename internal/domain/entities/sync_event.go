package entities

import "time"

// SyncEvent is published on the event bus when a cartography sync completes
type SyncEvent struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Type      string    `json:"type"`
	Province  string    `json:"province,omitempty"`
	City      string    `json:"city,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types published by the sync service
const (
	EventSyncCompleted = "cartography.sync.completed"
)

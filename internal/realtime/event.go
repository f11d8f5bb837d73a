package realtime

import "time"

type EventType string

const (
	EventLeadUpserted EventType = "lead.upserted"
)

// Event is the envelope published to dashboard listeners.
type Event struct {
	Type       EventType      `json:"type"`
	ID         string         `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

package events

import "time"

// Event is anything published on the cross-instance bus.
type Event interface {
	// EventType returns the subject suffix, e.g. "kb.changed".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event types published by this service.
const (
	TypeKnowledgeBaseChanged = "kb.changed"
	TypeSessionPromoted      = "session.promoted"
	TypeSessionEnded         = "session.ended"
)

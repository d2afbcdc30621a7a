package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used across the application.
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

const TypeKnowledgebaseChanged = "KNOWLEDGEBASE_CHANGED"

// NewKnowledgebaseChanged is emitted after a successful rebuild so
// collaborators (question cache, readiness checks) can refresh.
func NewKnowledgebaseChanged(storeReference string, documentCount int) BaseEvent {
	return BaseEvent{
		Type: TypeKnowledgebaseChanged,
		Data: map[string]interface{}{
			"store_reference": storeReference,
			"document_count":  documentCount,
		},
		OccurredAt: time.Now(),
	}
}

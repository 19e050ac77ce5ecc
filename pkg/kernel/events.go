package kernel

import (
	"time"

	"github.com/google/uuid"
)

// EventMeta is the envelope shared by every domain event. Embed it so the
// fields flatten into the event's JSON.
type EventMeta struct {
	EventID    uuid.UUID  `json:"event_id"`
	Version    int        `json:"version"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewEventMeta stamps a fresh event id and the current UTC time.
func NewEventMeta(version int) EventMeta {
	return EventMeta{EventID: uuid.New(), Version: version, OccurredAt: time.Now().UTC()}
}

// Meta gives publishers access to the envelope.
func (m *EventMeta) Meta() *EventMeta { return m }

// SetActor records who issued the command. uuid.Nil leaves the event anonymous.
func (m *EventMeta) SetActor(actorID uuid.UUID) {
	if actorID == uuid.Nil {
		m.ActorID = nil
		return
	}
	m.ActorID = &actorID
}

// Event is a domain event recorded by an aggregate and published by its
// repository in the same transaction as the state change.
type Event interface {
	Topic() string
	Meta() *EventMeta
}

// EventRecorder collects the events an aggregate raises until a repository
// pulls them. Embed it in aggregates.
type EventRecorder struct {
	events []Event
}

// Record appends e to the pending events.
func (r *EventRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns the pending events and clears them.
func (r *EventRecorder) PullEvents() []Event {
	out := r.events
	r.events = nil
	return out
}

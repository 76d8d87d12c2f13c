// Package store is the application-wide state container: commands are routed
// to handlers that emit events, events are folded into state by reducers, and
// derived values are served from memoized selectors.
package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is a fact recorded against an aggregate.
type Event interface {
	EventName() string
}

// Command is a request to change an aggregate.
type Command interface {
	CommandName() string
}

// Cover identifies the aggregate an event book belongs to.
type Cover struct {
	Domain        string
	Root          uuid.UUID
	Key           string // business key the root was derived from
	CorrelationID string
}

// EventPage is one sequenced event.
type EventPage struct {
	Sequence  uint32
	Event     Event
	CreatedAt time.Time
}

// Snapshot is serialized state covering the first Sequence events of a book.
type Snapshot struct {
	Sequence uint32          `json:"sequence"`
	State    json.RawMessage `json:"state"`
}

// EventBook is the ordered history of one aggregate.
type EventBook struct {
	Cover    Cover
	Snapshot *Snapshot
	Pages    []EventPage
}

// Events returns the events of the book in order.
func (b *EventBook) Events() []Event {
	if b == nil {
		return nil
	}
	events := make([]Event, 0, len(b.Pages))
	for _, page := range b.Pages {
		events = append(events, page.Event)
	}
	return events
}

// Empty reports whether the book carries no events.
func (b *EventBook) Empty() bool {
	return b == nil || len(b.Pages) == 0
}

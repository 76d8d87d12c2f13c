// StateBuilder provides declarative reducer registration for state reconstruction.
//
// Mirrors CommandRouter's pattern of registering handlers by name.
package store

import (
	"encoding/json"
)

// StateApplier applies one event to state. Appliers are reducers: they only
// fold the event into state and never fail.
type StateApplier[S any] func(state *S, event Event)

// SnapshotLoader loads state from a snapshot.
//
// Optional - if not set, snapshots are ignored.
type SnapshotLoader[S any] func(state *S, snapshot json.RawMessage)

type applierEntry[S any] struct {
	name  string
	apply StateApplier[S]
}

// StateBuilder builds state from events with registered reducers.
//
// Example:
//
//	builder := store.NewStateBuilder(EmptyState).
//	    WithSnapshot(store.LoadJSONSnapshot[CartState]()).
//	    On(EvtItemAdded, store.Reduce(applyItemAdded)).
//	    On(EvtItemRemoved, store.Reduce(applyItemRemoved))
type StateBuilder[S any] struct {
	newState       func() S
	snapshotLoader SnapshotLoader[S]
	appliers       []applierEntry[S]
}

// NewStateBuilder creates a StateBuilder for state type S.
//
// The newState function creates a default/zero state.
func NewStateBuilder[S any](newState func() S) *StateBuilder[S] {
	return &StateBuilder[S]{
		newState: newState,
		appliers: make([]applierEntry[S], 0),
	}
}

// WithSnapshot sets a snapshot loader for restoring state from snapshots.
func (sb *StateBuilder[S]) WithSnapshot(loader SnapshotLoader[S]) *StateBuilder[S] {
	sb.snapshotLoader = loader
	return sb
}

// On registers an event applier for an event name.
func (sb *StateBuilder[S]) On(name string, apply StateApplier[S]) *StateBuilder[S] {
	sb.appliers = append(sb.appliers, applierEntry[S]{
		name:  name,
		apply: apply,
	})
	return sb
}

// Apply applies a single event to state using registered handlers.
// Unknown events are ignored.
func (sb *StateBuilder[S]) Apply(state *S, event Event) {
	if event == nil {
		return
	}
	for _, applier := range sb.appliers {
		if applier.name == event.EventName() {
			applier.apply(state, event)
			break
		}
	}
}

// Rebuild reconstructs state from an EventBook.
//
// Handles the snapshot first (if a loader is configured), then applies events.
func (sb *StateBuilder[S]) Rebuild(eventBook *EventBook) S {
	state := sb.newState()

	if eventBook == nil {
		return state
	}

	if sb.snapshotLoader != nil && eventBook.Snapshot != nil && len(eventBook.Snapshot.State) > 0 {
		sb.snapshotLoader(&state, eventBook.Snapshot.State)
	}

	for _, page := range eventBook.Pages {
		sb.Apply(&state, page.Event)
	}

	return state
}

// RebuildFunc returns a function compatible with NewCommandRouter.
func (sb *StateBuilder[S]) RebuildFunc() func(*EventBook) S {
	return sb.Rebuild
}

// Reduce adapts a reducer written for one concrete event type.
func Reduce[S any, E Event](fn func(state *S, event E)) StateApplier[S] {
	return func(state *S, event Event) {
		if typed, ok := event.(E); ok {
			fn(state, typed)
		}
	}
}

// LoadJSONSnapshot creates a snapshot loader for JSON encoded state.
// A snapshot that fails to decode leaves the zero state in place.
func LoadJSONSnapshot[S any]() SnapshotLoader[S] {
	return func(state *S, snapshot json.RawMessage) {
		var decoded S
		if err := json.Unmarshal(snapshot, &decoded); err == nil {
			*state = decoded
		}
	}
}

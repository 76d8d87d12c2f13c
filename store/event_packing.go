package store

import "time"

// PackEvent wraps a single event into an EventBook.
func PackEvent(cover Cover, event Event, seq uint32) *EventBook {
	return PackEvents(cover, []Event{event}, seq)
}

// PackEvents wraps events into an EventBook with sequential numbering.
// A nil or empty slice yields a book without pages, which commits nothing.
func PackEvents(cover Cover, events []Event, startSeq uint32) *EventBook {
	now := time.Now().UTC()
	pages := make([]EventPage, 0, len(events))
	for i, event := range events {
		pages = append(pages, EventPage{
			Sequence:  startSeq + uint32(i),
			Event:     event,
			CreatedAt: now,
		})
	}

	return &EventBook{
		Cover: cover,
		Pages: pages,
	}
}

// NoEvents is returned by handlers when a command is accepted but changes nothing.
func NoEvents(cover Cover) *EventBook {
	return &EventBook{Cover: cover}
}

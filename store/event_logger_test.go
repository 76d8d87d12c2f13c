package store

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventLogger_logsEachPage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	listener := EventLogger[counterState](zap.New(core))

	cover := CoverFor("counter", "c-1")
	book := PackEvents(cover, []Event{incremented{By: 1}, incremented{By: 2}}, 0)
	listener(context.Background(), cover, book.Pages, counterState{Total: 3})

	entries := logs.FilterMessage("event committed").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	fields := entries[1].ContextMap()
	if fields["event"] != "Incremented" || fields["seq"] != uint32(1) {
		t.Errorf("unexpected fields %v", fields)
	}
}

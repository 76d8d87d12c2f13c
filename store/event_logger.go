package store

import (
	"context"

	"go.uber.org/zap"
)

// EventLogger returns a listener that writes every committed event to logger.
func EventLogger[S any](logger *zap.Logger) Listener[S] {
	return func(_ context.Context, cover Cover, pages []EventPage, _ S) {
		for _, page := range pages {
			logger.Info("event committed",
				zap.String("domain", cover.Domain),
				zap.String("key", cover.Key),
				zap.String("root", cover.Root.String()),
				zap.Uint32("seq", page.Sequence),
				zap.String("event", page.Event.EventName()),
				zap.Any("payload", page.Event),
			)
		}
	}
}

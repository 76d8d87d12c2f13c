// Package session keeps cart and wishlist snapshots in Redis so they survive
// restarts of the storefront. Snapshots expire after a period of inactivity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/store"
)

// DefaultTTL is how long an untouched snapshot is kept.
const DefaultTTL = 7 * 24 * time.Hour

// Store reads and writes aggregate snapshots.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, logger: logger}
}

// Key is the Redis key holding the snapshot of an aggregate.
func Key(domain, customerID string) string {
	return fmt.Sprintf("session:%s:%s", domain, customerID)
}

// Load returns the stored snapshot for cover, or nil when there is none.
func (s *Store) Load(ctx context.Context, cover store.Cover) (*store.Snapshot, error) {
	key := Key(cover.Domain, cover.Key)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", key, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", key, err)
	}
	return &snap, nil
}

// Save stores state as the snapshot covering the first seq events of cover.
func (s *Store) Save(ctx context.Context, cover store.Cover, seq uint32, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode %s state: %w", cover.Domain, err)
	}
	data, err := json.Marshal(store.Snapshot{Sequence: seq, State: raw})
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", cover.Domain, err)
	}
	key := Key(cover.Domain, cover.Key)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", key, err)
	}
	return nil
}

// Clear drops every snapshot of a customer.
func (s *Store) Clear(ctx context.Context, customerID string) error {
	keys := []string{
		Key(store.DomainCart, customerID),
		Key(store.DomainWishlist, customerID),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session of %s: %w", customerID, err)
	}
	return nil
}

// ClearCart drops the cart snapshot of a customer.
func (s *Store) ClearCart(ctx context.Context, customerID string) error {
	key := Key(store.DomainCart, customerID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", key, err)
	}
	return nil
}

// Hydrator restores aggregates from stored snapshots.
func (s *Store) Hydrator() store.Hydrator {
	return s.Load
}

// Saver returns a listener that stores the state after every commit. Write
// failures are logged; the commit itself stands.
func Saver[S any](s *Store) store.Listener[S] {
	return func(ctx context.Context, cover store.Cover, pages []store.EventPage, state S) {
		if len(pages) == 0 {
			return
		}
		seq := pages[len(pages)-1].Sequence + 1
		if err := s.Save(ctx, cover, seq, state); err != nil {
			s.logger.Warn("session snapshot not saved",
				zap.String("domain", cover.Domain),
				zap.String("customer_id", cover.Key),
				zap.Error(err))
		}
	}
}

// Options wires an aggregate to the store: hydrate on first access and save
// after every commit.
func Options[S any](s *Store) []store.AggregateOption[S] {
	return []store.AggregateOption[S]{
		store.WithHydrator[S](s.Hydrator()),
		store.WithListener[S](Saver[S](s)),
	}
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Listener observes events committed to an aggregate together with the state
// they produced. Listeners run while the aggregate is locked and must not call
// back into it.
type Listener[S any] func(ctx context.Context, cover Cover, pages []EventPage, state S)

// Hydrator restores an aggregate that is not held in memory. It returns a nil
// snapshot when nothing was persisted.
type Hydrator func(ctx context.Context, cover Cover) (*Snapshot, error)

// AggregateOption configures an Aggregate.
type AggregateOption[S any] func(*Aggregate[S])

// WithListener registers a listener for committed events.
func WithListener[S any](l Listener[S]) AggregateOption[S] {
	return func(a *Aggregate[S]) { a.listeners = append(a.listeners, l) }
}

// WithHydrator sets the function used to restore unknown aggregates.
func WithHydrator[S any](h Hydrator) AggregateOption[S] {
	return func(a *Aggregate[S]) { a.hydrate = h }
}

// WithSnapshotEvery folds the event book into a snapshot once it holds n pages.
// The StateBuilder must have a snapshot loader for compacted books to rebuild.
func WithSnapshotEvery[S any](n int) AggregateOption[S] {
	return func(a *Aggregate[S]) { a.snapshotEvery = n }
}

// WithLogger sets the aggregate logger.
func WithLogger[S any](logger *zap.Logger) AggregateOption[S] {
	return func(a *Aggregate[S]) { a.logger = logger }
}

// Aggregate holds the event books of every instance of one aggregate type and
// serializes all transitions through a single writer.
type Aggregate[S any] struct {
	mu            sync.Mutex
	router        *CommandRouter[S]
	builder       *StateBuilder[S]
	books         map[uuid.UUID]*EventBook
	listeners     []Listener[S]
	hydrate       Hydrator
	snapshotEvery int
	logger        *zap.Logger
}

// NewAggregate creates an Aggregate from a router and the builder used to fold its events.
func NewAggregate[S any](router *CommandRouter[S], builder *StateBuilder[S], opts ...AggregateOption[S]) *Aggregate[S] {
	a := &Aggregate[S]{
		router:  router,
		builder: builder,
		books:   make(map[uuid.UUID]*EventBook),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Domain returns the aggregate domain name.
func (a *Aggregate[S]) Domain() string { return a.router.Domain() }

// Commit is the outcome of an accepted command.
type Commit[S any] struct {
	State    S
	Sequence uint32 // sequence the next event will get; identifies State
	Events   *EventBook
}

// Version identifies the committed state for memoized selectors.
func (c Commit[S]) Version() Version {
	return Version{Root: c.Events.Cover.Root, Sequence: c.Sequence}
}

// Execute dispatches cmd against the aggregate identified by cover and commits
// the resulting events. On rejection the aggregate is left untouched.
func (a *Aggregate[S]) Execute(ctx context.Context, cover Cover, cmd Command) (Commit[S], error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	book, err := a.load(ctx, cover)
	if err != nil {
		return Commit[S]{}, err
	}

	result, err := a.router.Dispatch(cover, cmd, book)
	if err != nil {
		return Commit[S]{}, err
	}
	if result == nil {
		result = NoEvents(cover)
	}

	if result.Empty() {
		return Commit[S]{State: a.builder.Rebuild(book), Sequence: NextSequence(book), Events: result}, nil
	}

	book.Pages = append(book.Pages, result.Pages...)
	state := a.builder.Rebuild(book)
	seq := NextSequence(book)
	a.compact(book, state)

	for _, l := range a.listeners {
		l(ctx, cover, result.Pages, state)
	}

	return Commit[S]{State: state, Sequence: seq, Events: result}, nil
}

// State returns the current state of the aggregate identified by cover.
func (a *Aggregate[S]) State(ctx context.Context, cover Cover) (S, uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	book, err := a.load(ctx, cover)
	if err != nil {
		var zero S
		return zero, 0, err
	}
	return a.builder.Rebuild(book), NextSequence(book), nil
}

// Forget drops the in-memory book for root. The next access hydrates again,
// so sequences stay unique only if the hydrator returns the latest snapshot.
func (a *Aggregate[S]) Forget(root uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.books, root)
}

func (a *Aggregate[S]) load(ctx context.Context, cover Cover) (*EventBook, error) {
	if book, ok := a.books[cover.Root]; ok {
		return book, nil
	}

	book := &EventBook{Cover: cover}
	if a.hydrate != nil {
		snap, err := a.hydrate(ctx, cover)
		if err != nil {
			return nil, fmt.Errorf("failed to hydrate %s %s: %w", a.router.Domain(), cover.Key, err)
		}
		book.Snapshot = snap
	}
	a.books[cover.Root] = book
	return book, nil
}

func (a *Aggregate[S]) compact(book *EventBook, state S) {
	if a.snapshotEvery <= 0 || len(book.Pages) < a.snapshotEvery {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		a.logger.Warn("snapshot skipped",
			zap.String("domain", a.router.Domain()),
			zap.String("root", book.Cover.Root.String()),
			zap.Error(err))
		return
	}
	book.Snapshot = &Snapshot{Sequence: NextSequence(book), State: data}
	book.Pages = nil
}

package store

// Error message constants.
const (
	ErrMsgUnknownCommand    = "unknown command type"
	ErrMsgNoCommand         = "no command"
	ErrMsgUnexpectedCommand = "unexpected command payload"
)

// CommandHandler validates a command against current state and returns the
// events to commit. seq is the sequence number of the first new event.
type CommandHandler[S any] func(cover Cover, cmd Command, state *S, seq uint32) (*EventBook, error)

type commandEntry[S any] struct {
	name    string
	handler CommandHandler[S]
}

// CommandRouter dispatches commands to handlers by command name.
//
// Example:
//
//	router := store.NewCommandRouter("cart", builder.Rebuild).
//	    On(CmdAddItem, store.Handle(HandleAddItem)).
//	    On(CmdRemoveItem, store.Handle(HandleRemoveItem))
//
//	book, err := router.Dispatch(cover, AddItem{...}, prior)
type CommandRouter[S any] struct {
	domain  string
	rebuild func(*EventBook) S
	entries []commandEntry[S]
}

// NewCommandRouter creates a command router for a domain.
//
// - domain: The aggregate's domain name (e.g., "cart").
// - rebuild: Function to rebuild state from prior events.
func NewCommandRouter[S any](domain string, rebuild func(*EventBook) S) *CommandRouter[S] {
	return &CommandRouter[S]{domain: domain, rebuild: rebuild}
}

// On registers a handler for a command name.
func (r *CommandRouter[S]) On(name string, handler CommandHandler[S]) *CommandRouter[S] {
	r.entries = append(r.entries, commandEntry[S]{name, handler})
	return r
}

// Dispatch rebuilds state from prior, finds the handler registered for the
// command and returns the events it produced, numbered after prior.
func (r *CommandRouter[S]) Dispatch(cover Cover, cmd Command, prior *EventBook) (*EventBook, error) {
	if cmd == nil {
		return nil, NewInvalidArgument(ErrMsgNoCommand)
	}

	state := r.rebuild(prior)
	seq := NextSequence(prior)

	for _, e := range r.entries {
		if e.name == cmd.CommandName() {
			return e.handler(cover, cmd, &state, seq)
		}
	}

	return nil, NewInvalidArgumentf("%s: %s", ErrMsgUnknownCommand, cmd.CommandName())
}

// Domain returns the aggregate domain name.
func (r *CommandRouter[S]) Domain() string { return r.domain }

// Types returns registered command names.
func (r *CommandRouter[S]) Types() []string {
	result := make([]string, len(r.entries))
	for i, e := range r.entries {
		result[i] = e.name
	}
	return result
}

// Handle adapts a handler written for one concrete command type.
func Handle[S any, C Command](fn func(cover Cover, cmd C, state *S, seq uint32) (*EventBook, error)) CommandHandler[S] {
	return func(cover Cover, cmd Command, state *S, seq uint32) (*EventBook, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, NewInvalidArgumentf("%s: %s", ErrMsgUnexpectedCommand, cmd.CommandName())
		}
		return fn(cover, typed, state, seq)
	}
}

// NextSequence computes the next event sequence number from prior events,
// counting events folded into a snapshot.
func NextSequence(events *EventBook) uint32 {
	if events == nil {
		return 0
	}
	var base uint32
	if events.Snapshot != nil {
		base = events.Snapshot.Sequence
	}
	return base + uint32(len(events.Pages))
}

package store

type counterState struct {
	Total int `json:"total"`
}

type increment struct{ By int }

func (increment) CommandName() string { return "Increment" }

type touch struct{}

func (touch) CommandName() string { return "Touch" }

type incremented struct{ By int }

func (incremented) EventName() string { return "Incremented" }

type ignored struct{}

func (ignored) EventName() string { return "Ignored" }

func newCounterBuilder() *StateBuilder[counterState] {
	return NewStateBuilder(func() counterState { return counterState{} }).
		WithSnapshot(LoadJSONSnapshot[counterState]()).
		On("Incremented", Reduce(func(s *counterState, e incremented) { s.Total += e.By }))
}

func handleIncrement(cover Cover, cmd increment, _ *counterState, seq uint32) (*EventBook, error) {
	if err := RequirePositive(int32(cmd.By), "by must be positive"); err != nil {
		return nil, err
	}
	return PackEvent(cover, incremented{By: cmd.By}, seq), nil
}

func handleTouch(cover Cover, _ touch, _ *counterState, _ uint32) (*EventBook, error) {
	return NoEvents(cover), nil
}

func newCounterRouter(builder *StateBuilder[counterState]) *CommandRouter[counterState] {
	return NewCommandRouter("counter", builder.RebuildFunc()).
		On("Increment", Handle(handleIncrement)).
		On("Touch", Handle(handleTouch))
}

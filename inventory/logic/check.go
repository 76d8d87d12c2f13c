package logic

import (
	"context"
	"sync"
)

// Phase is the state of a stock check.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseValid      Phase = "valid"
	PhaseInvalid    Phase = "invalid"
)

// Result is a snapshot of a stock check.
type Result struct {
	Phase  Phase    `json:"phase"`
	Errors []string `json:"errors"`
}

// Valid reports whether the last check passed.
func (r Result) Valid() bool {
	return r.Phase == PhaseValid
}

// ValidateFunc performs one validation round.
type ValidateFunc func(ctx context.Context, lines []Line) ([]string, error)

// StockCheck tracks the last stock validation of a cart:
// idle -> validating -> valid | invalid. Concurrent runs are not
// deduplicated; the last one to finish wins.
type StockCheck struct {
	mu     sync.Mutex
	phase  Phase
	errors []string
}

func NewStockCheck() *StockCheck {
	return &StockCheck{phase: PhaseIdle}
}

// Run validates lines and records the outcome. A failing validator returns
// the check to idle and the error to the caller.
func (c *StockCheck) Run(ctx context.Context, validate ValidateFunc, lines []Line) (Result, error) {
	c.set(PhaseValidating, nil)

	errs, err := validate(ctx, lines)
	if err != nil {
		c.set(PhaseIdle, nil)
		return c.Result(), err
	}
	if len(errs) > 0 {
		c.set(PhaseInvalid, errs)
	} else {
		c.set(PhaseValid, nil)
	}
	return c.Result(), nil
}

// Reset returns the check to idle.
func (c *StockCheck) Reset() {
	c.set(PhaseIdle, nil)
}

func (c *StockCheck) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make([]string, len(c.errors))
	copy(errs, c.errors)
	return Result{Phase: c.phase, Errors: errs}
}

func (c *StockCheck) set(phase Phase, errs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = phase
	c.errors = errs
}

// Package inventory validates requested quantities against available stock.
package inventory

import (
	"context"
	"fmt"

	"github.com/annamerheb/storefront/inventory/logic"
)

// Validator checks cart lines against stock and returns one message per line
// that cannot be fulfilled.
type Validator interface {
	Validate(ctx context.Context, lines []logic.Line) ([]string, error)
}

// StockSource loads available stock for products.
type StockSource interface {
	Stock(ctx context.Context, productIDs []int64) (map[int64]logic.Stock, error)
}

// LocalValidator validates against a stock source in this process. Fed by a
// cached catalog it is an approximation; the inventory service is authoritative.
type LocalValidator struct {
	source StockSource
}

func NewLocalValidator(source StockSource) *LocalValidator {
	return &LocalValidator{source: source}
}

func (v *LocalValidator) Validate(ctx context.Context, lines []logic.Line) ([]string, error) {
	if len(lines) == 0 {
		return []string{}, nil
	}
	stock, err := v.source.Stock(ctx, logic.ProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	return logic.Validate(lines, stock), nil
}

// StaticStock is a fixed stock table.
type StaticStock map[int64]logic.Stock

func (s StaticStock) Stock(_ context.Context, productIDs []int64) (map[int64]logic.Stock, error) {
	out := make(map[int64]logic.Stock, len(productIDs))
	for _, id := range productIDs {
		if st, ok := s[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}

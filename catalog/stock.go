package catalog

import (
	"context"

	"github.com/annamerheb/storefront/inventory/logic"
)

// StockSource exposes product stock for validation.
type StockSource struct {
	repo Repository
}

func NewStockSource(repo Repository) *StockSource {
	return &StockSource{repo: repo}
}

func (s *StockSource) Stock(ctx context.Context, productIDs []int64) (map[int64]logic.Stock, error) {
	products, err := s.repo.GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]logic.Stock, len(products))
	for id, p := range products {
		out[id] = logic.Stock{ProductID: id, Name: p.Name, Available: p.Stock}
	}
	return out, nil
}

package order

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/annamerheb/storefront/order/logic"
)

// StockReserver takes ordered quantities out of stock, all or nothing.
type StockReserver interface {
	Reserve(ctx context.Context, quantities map[int64]int32) error
}

// MemoryRepository keeps orders in process, used when no database is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]logic.Order
	stock  StockReserver
}

// NewMemoryRepository creates a repository. stock may be nil, in which case
// no stock is reserved.
func NewMemoryRepository(stock StockReserver) *MemoryRepository {
	return &MemoryRepository{orders: make(map[uuid.UUID]logic.Order), stock: stock}
}

func (r *MemoryRepository) Create(ctx context.Context, o logic.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stock != nil {
		quantities := make(map[int64]int32, len(o.Items))
		for _, item := range o.Items {
			quantities[item.ProductID] += item.Quantity
		}
		if err := r.stock.Reserve(ctx, quantities); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientStock, err)
		}
	}
	r.orders[o.ID] = o
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (logic.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return logic.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (r *MemoryRepository) ListByCustomer(_ context.Context, customerID string, limit int) ([]logic.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]logic.Order, 0)
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

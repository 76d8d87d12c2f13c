package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrOutOfStock is returned by Reserve when a product has too little stock.
var ErrOutOfStock = errors.New("out of stock")

// MemoryRepository is an in-process catalog, used when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]Product
}

func NewMemoryRepository(products ...Product) *MemoryRepository {
	r := &MemoryRepository{products: make(map[int64]Product, len(products))}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, q ListQuery) (Page, error) {
	q, err := q.Normalize()
	if err != nil {
		return Page{}, err
	}

	r.mu.RLock()
	items := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Rating >= q.MinRating {
			items = append(items, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, less(items, q.Ordering))

	total := len(items)
	start := min(q.Offset(), total)
	end := min(start+q.PageSize, total)
	return Page{Items: items[start:end], Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *MemoryRepository) GetMany(_ context.Context, ids []int64) (map[int64]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// Put inserts or replaces a product.
func (r *MemoryRepository) Put(p Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// Reserve takes quantities out of stock. Either every quantity is taken or
// none is.
func (r *MemoryRepository) Reserve(_ context.Context, quantities map[int64]int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, qty := range quantities {
		p, ok := r.products[id]
		if !ok {
			return fmt.Errorf("%w: product %d", ErrProductNotFound, id)
		}
		if p.Stock < qty {
			return fmt.Errorf("%w: product %d (%s)", ErrOutOfStock, id, p.Name)
		}
	}
	for id, qty := range quantities {
		p := r.products[id]
		p.Stock -= qty
		r.products[id] = p
	}
	return nil
}

func less(items []Product, ordering string) func(i, j int) bool {
	desc := strings.HasPrefix(ordering, "-")
	key := strings.TrimPrefix(ordering, "-")
	return func(i, j int) bool {
		a, b := items[i], items[j]
		var c int
		switch key {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "price":
			c = cmp.Compare(a.PriceCents, b.PriceCents)
		case "rating":
			c = cmp.Compare(a.Rating, b.Rating)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			c = -c
		}
		if c == 0 {
			if desc && key == "created_at" {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		return c < 0
	}
}


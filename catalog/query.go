package catalog

import (
	"fmt"

	"github.com/annamerheb/storefront/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultOrdering = "-created_at"
)

// orderings whitelists the sort keys a client may request.
var orderings = map[string]string{
	"name":        "name ASC, id ASC",
	"price":       "price_cents ASC, id ASC",
	"-price":      "price_cents DESC, id ASC",
	"rating":      "rating ASC, id ASC",
	"-rating":     "rating DESC, id ASC",
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id DESC",
}

// ListQuery selects a page of products.
type ListQuery struct {
	Page      int
	PageSize  int
	MinRating float64
	Ordering  string
}

// Normalize fills defaults and rejects values outside the accepted ranges.
func (q ListQuery) Normalize() (ListQuery, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.MinRating < 0 || q.MinRating > 5 {
		return q, store.NewInvalidArgumentf("min_rating must be between 0 and 5, got %v", q.MinRating)
	}
	if q.Ordering == "" {
		q.Ordering = DefaultOrdering
	}
	if _, ok := orderings[q.Ordering]; !ok {
		return q, store.NewInvalidArgumentf("unsupported ordering %q", q.Ordering)
	}
	return q, nil
}

// Offset is the number of rows skipped before the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func (q ListQuery) orderClause() string {
	return orderings[q.Ordering]
}

func (q ListQuery) cacheKey() string {
	return fmt.Sprintf("products:list:%d:%d:%g:%s", q.Page, q.PageSize, q.MinRating, q.Ordering)
}

// Page is one page of a product listing.
type Page struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

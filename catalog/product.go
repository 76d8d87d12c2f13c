// Package catalog serves product reference data from Postgres with a Redis
// read-through cache.
package catalog

import (
	"errors"
	"time"

	"github.com/annamerheb/storefront/pricing"
)

// ErrProductNotFound is returned when a product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// Product is catalog reference data. The storefront never mutates it except
// for stock decrements on order placement.
type Product struct {
	ID                int64         `db:"id" json:"id"`
	Name              string        `db:"name" json:"name"`
	PriceCents        pricing.Cents `db:"price_cents" json:"price"`
	DiscountPercent   *float64      `db:"discount_percent" json:"discount_percent,omitempty"`
	Stock             int32         `db:"stock" json:"stock"`
	LowStockThreshold int32         `db:"low_stock_threshold" json:"low_stock_threshold"`
	Rating            float64       `db:"rating" json:"rating"`
	ImageURL          string        `db:"image_url" json:"image_url"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
}

// DiscountedPrice is the unit price after the product's own discount.
func (p Product) DiscountedPrice() pricing.Cents {
	return pricing.DiscountedPrice(p.PriceCents, p.DiscountPercent)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// LowStock reports whether stock is positive but at or below the threshold.
func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock <= p.LowStockThreshold
}

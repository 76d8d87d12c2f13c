package catalog

import "time"

func percent(v float64) *float64 { return &v }

// DemoProducts is the catalog served when no database is configured.
func DemoProducts(now time.Time) []Product {
	day := 24 * time.Hour
	return []Product{
		{ID: 1, Name: "Wireless Headphones", PriceCents: 12999, DiscountPercent: percent(15), Stock: 24, LowStockThreshold: 5, Rating: 4.6, CreatedAt: now.Add(-30 * day)},
		{ID: 2, Name: "Mechanical Keyboard", PriceCents: 8950, Stock: 4, LowStockThreshold: 5, Rating: 4.4, CreatedAt: now.Add(-21 * day)},
		{ID: 3, Name: "USB-C Hub", PriceCents: 3499, DiscountPercent: percent(10), Stock: 60, LowStockThreshold: 10, Rating: 4.1, CreatedAt: now.Add(-14 * day)},
		{ID: 4, Name: "4K Monitor", PriceCents: 32900, Stock: 0, LowStockThreshold: 3, Rating: 4.8, CreatedAt: now.Add(-7 * day)},
		{ID: 5, Name: "Laptop Stand", PriceCents: 2999, DiscountPercent: percent(25), Stock: 15, LowStockThreshold: 5, Rating: 3.9, CreatedAt: now.Add(-3 * day)},
		{ID: 6, Name: "Webcam", PriceCents: 5900, Stock: 9, LowStockThreshold: 5, Rating: 4.0, CreatedAt: now.Add(-1 * day)},
	}
}

package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate applies when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Totals is the composed breakdown of an order. Carts derive it on every
// read; only placed orders keep a copy.
type Totals struct {
	Subtotal              Cents `json:"subtotal"`
	Discount              Cents `json:"discount"`
	SubtotalAfterDiscount Cents `json:"subtotal_after_discount"`
	Delivery              Cents `json:"delivery"`
	Tax                   Cents `json:"tax"`
	Total                 Cents `json:"total"`
}

// Compose combines subtotal, discount, delivery and tax into order totals.
//
// The discounted subtotal never drops below zero, and Discount reports the
// amount actually taken off. Tax is charged on the discounted subtotal plus
// delivery.
func Compose(subtotal, discount, delivery Cents, taxRate decimal.Decimal) Totals {
	after := subtotal - discount
	if after < 0 {
		after = 0
	}
	tax := (after + delivery).MulRate(taxRate)
	return Totals{
		Subtotal:              subtotal,
		Discount:              subtotal - after,
		SubtotalAfterDiscount: after,
		Delivery:              delivery,
		Tax:                   tax,
		Total:                 after + delivery + tax,
	}
}

// Quote prices a subtotal with an optional coupon and a delivery option.
func Quote(subtotal Cents, coupon *Coupon, delivery DeliveryOption, taxRate decimal.Decimal) Totals {
	var discount Cents
	cost := delivery.Cost
	if coupon != nil {
		discount = coupon.Discount(subtotal)
		cost = coupon.DeliveryCost(cost)
	}
	return Compose(subtotal, discount, cost, taxRate)
}

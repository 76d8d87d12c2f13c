package logic

import (
	"github.com/shopspring/decimal"

	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

// TotalPrice is the sum of the line totals, each rounded once to whole cents.
func TotalPrice(state CartState) pricing.Cents {
	var total pricing.Cents
	for _, item := range state.Items {
		total += item.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func ItemCount(state CartState) int32 {
	var count int32
	for _, item := range state.Items {
		count += item.Quantity
	}
	return count
}

// Totals composes the order totals of the cart with its coupon and delivery choice.
func Totals(state CartState, taxRate decimal.Decimal) pricing.Totals {
	return pricing.Quote(TotalPrice(state), state.Coupon, state.Delivery(), taxRate)
}

// Selectors memoizes cart derivations per aggregate version.
type Selectors struct {
	taxRate    decimal.Decimal
	totalPrice *store.Memo[store.Version, pricing.Cents]
	itemCount  *store.Memo[store.Version, int32]
	totals     *store.Memo[store.Version, pricing.Totals]
}

func NewSelectors(taxRate decimal.Decimal) *Selectors {
	return &Selectors{
		taxRate:    taxRate,
		totalPrice: store.NewMemo[store.Version, pricing.Cents](store.DefaultMemoSize),
		itemCount:  store.NewMemo[store.Version, int32](store.DefaultMemoSize),
		totals:     store.NewMemo[store.Version, pricing.Totals](store.DefaultMemoSize),
	}
}

func (s *Selectors) TaxRate() decimal.Decimal { return s.taxRate }

func (s *Selectors) TotalPrice(v store.Version, state CartState) pricing.Cents {
	return s.totalPrice.Get(v, func() pricing.Cents { return TotalPrice(state) })
}

func (s *Selectors) ItemCount(v store.Version, state CartState) int32 {
	return s.itemCount.Get(v, func() int32 { return ItemCount(state) })
}

func (s *Selectors) Totals(v store.Version, state CartState) pricing.Totals {
	return s.totals.Get(v, func() pricing.Totals { return Totals(state, s.taxRate) })
}

// Package pricing holds the storefront's money arithmetic: per-line discounts,
// the coupon table, the delivery catalog and order total composition.
//
// Amounts are integer cents. Rates and percentages are applied with decimal
// arithmetic and rounded half away from zero to whole cents.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in minor currency units.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a major-unit amount to cents.
func FromDecimal(amount decimal.Decimal) Cents {
	return Cents(amount.Mul(hundred).Round(0).IntPart())
}

// ParseCents parses a major-unit amount such as "12.99".
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two decimals, e.g. "143.63".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MulRate multiplies the amount by rate, rounding to whole cents.
func (c Cents) MulRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// Percent returns pct percent of the amount, rounded to whole cents.
func (c Cents) Percent(pct decimal.Decimal) Cents {
	return c.MulRate(pct.Div(hundred))
}

// Times multiplies the amount by a quantity.
func (c Cents) Times(qty int32) Cents {
	return c * Cents(qty)
}

// DiscountedPrice applies an optional percentage discount to a unit price,
// rounded to whole cents. It is for display; line totals use LineTotal.
// A nil discount leaves the price unchanged.
func DiscountedPrice(price Cents, discountPercent *float64) Cents {
	if discountPercent == nil || *discountPercent == 0 {
		return price
	}
	return price - price.Percent(decimal.NewFromFloat(*discountPercent))
}

// LineTotal is price × qty × (1 − discount/100), rounded once to whole cents.
func LineTotal(price Cents, discountPercent *float64, qty int32) Cents {
	gross := price.Times(qty)
	if discountPercent == nil || *discountPercent == 0 {
		return gross
	}
	keep := hundred.Sub(decimal.NewFromFloat(*discountPercent)).Div(hundred)
	return gross.MulRate(keep)
}

package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CouponKind is the rule a coupon applies.
type CouponKind string

const (
	CouponPercentage   CouponKind = "percentage"
	CouponFixed        CouponKind = "fixed"
	CouponFreeDelivery CouponKind = "free_delivery"
)

// Coupon is a recognized promotion code and its rule.
type Coupon struct {
	Code        string     `json:"code"`
	Kind        CouponKind `json:"kind"`
	Percent     int64      `json:"percent,omitempty"`
	Amount      Cents      `json:"amount,omitempty"`
	Description string     `json:"description"`
}

// coupons is the single table of recognized codes.
var coupons = map[string]Coupon{
	"SAVE10":    {Code: "SAVE10", Kind: CouponPercentage, Percent: 10, Description: "10% off your order"},
	"SAVE15":    {Code: "SAVE15", Kind: CouponPercentage, Percent: 15, Description: "15% off your order"},
	"SAVE20":    {Code: "SAVE20", Kind: CouponPercentage, Percent: 20, Description: "20% off your order"},
	"VIP20":     {Code: "VIP20", Kind: CouponPercentage, Percent: 20, Description: "20% VIP discount"},
	"WELCOME10": {Code: "WELCOME10", Kind: CouponFixed, Amount: 1000, Description: "10.00 off your first order"},
	"FREESHIP":  {Code: "FREESHIP", Kind: CouponFreeDelivery, Description: "Free delivery"},
}

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupCoupon finds a coupon by code, ignoring case and surrounding spaces.
func LookupCoupon(code string) (Coupon, bool) {
	c, ok := coupons[NormalizeCode(code)]
	return c, ok
}

// Coupons lists every recognized coupon ordered by code.
func Coupons() []Coupon {
	list := make([]Coupon, 0, len(coupons))
	for _, c := range coupons {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Discount returns the amount taken off subtotal. It is not capped; Compose
// clamps the discounted subtotal at zero.
func (c Coupon) Discount(subtotal Cents) Cents {
	switch c.Kind {
	case CouponPercentage:
		return subtotal.Percent(decimal.NewFromInt(c.Percent))
	case CouponFixed:
		return c.Amount
	default:
		return 0
	}
}

// DeliveryCost returns the delivery cost after the coupon is applied.
func (c Coupon) DeliveryCost(cost Cents) Cents {
	if c.Kind == CouponFreeDelivery {
		return 0
	}
	return cost
}

// Package logic holds the order domain rules: what a placeable order looks
// like and how it is composed from cart lines.
package logic

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

// Error message constants for order domain.
const (
	ErrMsgCustomerIDRequired  = "Customer ID is required"
	ErrMsgItemsRequired       = "Order must have at least one item"
	ErrMsgItemQuantityPos     = "Item quantity must be positive"
	ErrMsgRecipientRequired   = "Recipient name is required"
	ErrMsgStreetRequired      = "Street is required"
	ErrMsgCityRequired        = "City is required"
	ErrMsgPostalCodeRequired  = "Postal code is required"
	ErrMsgCountryRequired     = "Country is required"
	ErrMsgPaymentMethodReq    = "Payment method is required"
	ErrMsgPaymentMethodUnsupp = "Unsupported payment method"
	ErrMsgSubtotalMismatch    = "Order subtotal does not match its lines"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusCancelled Status = "cancelled"
)

// Payment methods accepted at checkout. Payment itself is not processed.
const (
	PaymentCard           = "card"
	PaymentPayPal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// PaymentMethods lists the accepted payment methods.
func PaymentMethods() []string {
	return []string{PaymentCard, PaymentPayPal, PaymentCashOnDelivery}
}

// Address is a shipping address.
type Address struct {
	Recipient  string `json:"recipient"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate returns the first missing address field.
func (a Address) Validate() error {
	return store.FirstError(
		store.RequireNotEmpty(strings.TrimSpace(a.Recipient), ErrMsgRecipientRequired),
		store.RequireNotEmpty(strings.TrimSpace(a.Street), ErrMsgStreetRequired),
		store.RequireNotEmpty(strings.TrimSpace(a.City), ErrMsgCityRequired),
		store.RequireNotEmpty(strings.TrimSpace(a.PostalCode), ErrMsgPostalCodeRequired),
		store.RequireNotEmpty(strings.TrimSpace(a.Country), ErrMsgCountryRequired),
	)
}

// Item is one order line, priced at the moment the order is placed.
type Item struct {
	ProductID       int64         `db:"product_id" json:"product_id"`
	Name            string        `db:"name" json:"name"`
	UnitPrice       pricing.Cents `db:"unit_price_cents" json:"unit_price"`
	DiscountPercent *float64      `db:"discount_percent" json:"discount_percent,omitempty"`
	Quantity        int32         `db:"quantity" json:"quantity"`
	LineTotal       pricing.Cents `db:"line_total_cents" json:"line_total"`
}

// NewItem prices a line: discounted unit price times quantity.
func NewItem(productID int64, name string, unitPrice pricing.Cents, discountPercent *float64, quantity int32) Item {
	return Item{
		ProductID:       productID,
		Name:            name,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		Quantity:        quantity,
		LineTotal:       pricing.LineTotal(unitPrice, discountPercent, quantity),
	}
}

// Draft is an order that has not been placed yet.
type Draft struct {
	CustomerID      string
	Items           []Item
	Totals          pricing.Totals
	CouponCode      string
	DeliveryOption  string
	ShippingAddress Address
	PaymentMethod   string
}

// Validate checks the draft before it may be placed.
func (d Draft) Validate() error {
	if err := store.FirstError(
		store.RequireNotEmpty(d.CustomerID, ErrMsgCustomerIDRequired),
		store.RequireItems(d.Items, ErrMsgItemsRequired),
	); err != nil {
		return err
	}

	var subtotal pricing.Cents
	for _, item := range d.Items {
		if err := store.RequirePositive(item.Quantity, ErrMsgItemQuantityPos); err != nil {
			return err
		}
		subtotal += item.LineTotal
	}
	if subtotal != d.Totals.Subtotal {
		return store.NewFailedPrecondition(ErrMsgSubtotalMismatch)
	}

	if err := d.ShippingAddress.Validate(); err != nil {
		return err
	}
	return store.FirstError(
		store.RequireNotEmpty(d.PaymentMethod, ErrMsgPaymentMethodReq),
		store.RequireOneOf(d.PaymentMethod, PaymentMethods(), ErrMsgPaymentMethodUnsupp),
	)
}

// Order is a placed order.
type Order struct {
	ID              uuid.UUID      `json:"order_id"`
	CustomerID      string         `json:"customer_id"`
	Status          Status         `json:"status"`
	Items           []Item         `json:"items"`
	Totals          pricing.Totals `json:"totals"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	DeliveryOption  string         `json:"delivery_option"`
	ShippingAddress Address        `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Place validates a draft and turns it into an order.
func Place(d Draft, id uuid.UUID, now time.Time) (Order, error) {
	if err := d.Validate(); err != nil {
		return Order{}, err
	}
	items := make([]Item, len(d.Items))
	copy(items, d.Items)
	return Order{
		ID:              id,
		CustomerID:      d.CustomerID,
		Status:          StatusPlaced,
		Items:           items,
		Totals:          d.Totals,
		CouponCode:      d.CouponCode,
		DeliveryOption:  d.DeliveryOption,
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		CreatedAt:       now.UTC(),
	}, nil
}

// ItemCount is the total quantity across lines.
func (o Order) ItemCount() int32 {
	var n int32
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

package logic

import (
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

// Product is the snapshot of a catalog product taken when it enters the cart.
type Product struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Price           pricing.Cents `json:"price"`
	DiscountPercent *float64      `json:"discount_percent,omitempty"`
	ImageURL        string        `json:"image_url,omitempty"`
}

// DiscountedPrice is the unit price after the product's own discount.
func (p Product) DiscountedPrice() pricing.Cents {
	return pricing.DiscountedPrice(p.Price, p.DiscountPercent)
}

// MaxLineQuantity bounds the quantity of a single cart line.
const MaxLineQuantity int32 = 9999

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int32   `json:"quantity"`
}

// LineTotal is the discounted line amount, rounded once per line.
func (i CartItem) LineTotal() pricing.Cents {
	return pricing.LineTotal(i.Product.Price, i.Product.DiscountPercent, i.Quantity)
}

// CartState is the folded state of one customer's cart. Items keep insertion order.
type CartState struct {
	Items      []CartItem      `json:"items"`
	Coupon     *pricing.Coupon `json:"coupon,omitempty"`
	DeliveryID string          `json:"delivery_id,omitempty"`
}

func EmptyState() CartState {
	return CartState{Items: []CartItem{}}
}

// Find returns the index of a product's line, or -1.
func (s *CartState) Find(productID int64) int {
	for i, item := range s.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// Pristine reports whether the cart is in its freshly cleared state.
func (s *CartState) Pristine() bool {
	return s.IsEmpty() && s.Coupon == nil && s.DeliveryID == ""
}

// Delivery returns the selected delivery option, or the default one.
func (s *CartState) Delivery() pricing.DeliveryOption {
	return pricing.ResolveDelivery(s.DeliveryID)
}

// NewStateBuilder registers the cart reducers.
func NewStateBuilder() *store.StateBuilder[CartState] {
	return store.NewStateBuilder(EmptyState).
		WithSnapshot(store.LoadJSONSnapshot[CartState]()).
		On(EvtItemAdded, store.Reduce(applyItemAdded)).
		On(EvtItemRemoved, store.Reduce(applyItemRemoved)).
		On(EvtQuantityUpdated, store.Reduce(applyQuantityUpdated)).
		On(EvtCartCleared, store.Reduce(applyCartCleared)).
		On(EvtCouponApplied, store.Reduce(applyCouponApplied)).
		On(EvtCouponRemoved, store.Reduce(applyCouponRemoved)).
		On(EvtDeliverySelected, store.Reduce(applyDeliverySelected))
}

// Reducers never modify the slice they were handed; rebuilt states may share
// backing arrays with memoized values.

func applyItemAdded(state *CartState, event ItemAdded) {
	items := cloneItems(state.Items)
	if i := state.Find(event.Product.ID); i >= 0 {
		items[i].Quantity = event.NewQuantity
	} else {
		items = append(items, CartItem{Product: event.Product, Quantity: event.NewQuantity})
	}
	state.Items = items
}

func applyItemRemoved(state *CartState, event ItemRemoved) {
	items := make([]CartItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Product.ID != event.ProductID {
			items = append(items, item)
		}
	}
	state.Items = items
}

func applyQuantityUpdated(state *CartState, event QuantityUpdated) {
	if i := state.Find(event.ProductID); i >= 0 {
		items := cloneItems(state.Items)
		items[i].Quantity = event.NewQuantity
		state.Items = items
	}
}

func applyCartCleared(state *CartState, _ CartCleared) {
	*state = EmptyState()
}

func applyCouponApplied(state *CartState, event CouponApplied) {
	coupon := event.Coupon
	state.Coupon = &coupon
}

func applyCouponRemoved(state *CartState, _ CouponRemoved) {
	state.Coupon = nil
}

func applyDeliverySelected(state *CartState, event DeliverySelected) {
	state.DeliveryID = event.OptionID
}

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}

package logic

import "github.com/annamerheb/storefront/pricing"

// Event names.
const (
	EvtItemAdded        = "ItemAdded"
	EvtItemRemoved      = "ItemRemoved"
	EvtQuantityUpdated  = "QuantityUpdated"
	EvtCartCleared      = "CartCleared"
	EvtCouponApplied    = "CouponApplied"
	EvtCouponRemoved    = "CouponRemoved"
	EvtDeliverySelected = "DeliverySelected"
)

type ItemAdded struct {
	Product     Product `json:"product"`
	Quantity    int32   `json:"quantity"`
	NewQuantity int32   `json:"new_quantity"`
}

type ItemRemoved struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type QuantityUpdated struct {
	ProductID   int64 `json:"product_id"`
	OldQuantity int32 `json:"old_quantity"`
	NewQuantity int32 `json:"new_quantity"`
}

type CartCleared struct {
	ItemCount int32 `json:"item_count"`
}

type CouponApplied struct {
	Coupon   pricing.Coupon `json:"coupon"`
	Replaced string         `json:"replaced,omitempty"`
}

type CouponRemoved struct {
	Code string `json:"code"`
}

type DeliverySelected struct {
	OptionID string `json:"option_id"`
}

func (ItemAdded) EventName() string        { return EvtItemAdded }
func (ItemRemoved) EventName() string      { return EvtItemRemoved }
func (QuantityUpdated) EventName() string  { return EvtQuantityUpdated }
func (CartCleared) EventName() string      { return EvtCartCleared }
func (CouponApplied) EventName() string    { return EvtCouponApplied }
func (CouponRemoved) EventName() string    { return EvtCouponRemoved }
func (DeliverySelected) EventName() string { return EvtDeliverySelected }

package logic

// Command names.
const (
	CmdAddItem        = "AddItem"
	CmdRemoveItem     = "RemoveItem"
	CmdSetQuantity    = "SetQuantity"
	CmdClearCart      = "ClearCart"
	CmdApplyCoupon    = "ApplyCoupon"
	CmdRemoveCoupon   = "RemoveCoupon"
	CmdSelectDelivery = "SelectDelivery"
)

// AddItem puts quantity units of a product into the cart.
type AddItem struct {
	Product  Product
	Quantity int32
}

// RemoveItem drops a product's line.
type RemoveItem struct {
	ProductID int64
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
type SetQuantity struct {
	ProductID int64
	Quantity  int32
}

// ClearCart empties the cart and resets coupon and delivery.
type ClearCart struct{}

// ApplyCoupon applies a promotion code, replacing any applied coupon.
type ApplyCoupon struct {
	Code string
}

// RemoveCoupon drops the applied coupon.
type RemoveCoupon struct{}

// SelectDelivery picks a delivery option by id.
type SelectDelivery struct {
	OptionID string
}

func (AddItem) CommandName() string        { return CmdAddItem }
func (RemoveItem) CommandName() string     { return CmdRemoveItem }
func (SetQuantity) CommandName() string    { return CmdSetQuantity }
func (ClearCart) CommandName() string      { return CmdClearCart }
func (ApplyCoupon) CommandName() string    { return CmdApplyCoupon }
func (RemoveCoupon) CommandName() string   { return CmdRemoveCoupon }
func (SelectDelivery) CommandName() string { return CmdSelectDelivery }

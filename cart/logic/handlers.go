package logic

import (
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

func HandleAddItem(cover store.Cover, cmd AddItem, state *CartState, seq uint32) (*store.EventBook, error) {
	if cmd.Product.ID <= 0 {
		return nil, store.NewInvalidArgument(ErrMsgProductIDRequired)
	}
	if err := store.FirstError(
		store.RequirePositive(cmd.Quantity, ErrMsgQuantityPositive),
		store.RequireNonNegative(int64(cmd.Product.Price), ErrMsgPriceNegative),
	); err != nil {
		return nil, err
	}
	if d := cmd.Product.DiscountPercent; d != nil && (*d < 0 || *d > 100) {
		return nil, store.NewInvalidArgument(ErrMsgDiscountRange)
	}

	var existing int32
	if i := state.Find(cmd.Product.ID); i >= 0 {
		existing = state.Items[i].Quantity
	}
	if cmd.Quantity > MaxLineQuantity-existing {
		return nil, store.NewInvalidArgumentf(ErrMsgQuantityTooLarge, MaxLineQuantity)
	}
	newQuantity := existing + cmd.Quantity

	return store.PackEvent(cover, ItemAdded{
		Product:     cmd.Product,
		Quantity:    cmd.Quantity,
		NewQuantity: newQuantity,
	}, seq), nil
}

// HandleRemoveItem drops a line. Removing a product that is not in the cart
// is accepted and changes nothing.
func HandleRemoveItem(cover store.Cover, cmd RemoveItem, state *CartState, seq uint32) (*store.EventBook, error) {
	i := state.Find(cmd.ProductID)
	if i < 0 {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, ItemRemoved{
		ProductID: cmd.ProductID,
		Quantity:  state.Items[i].Quantity,
	}, seq), nil
}

// HandleSetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line.
func HandleSetQuantity(cover store.Cover, cmd SetQuantity, state *CartState, seq uint32) (*store.EventBook, error) {
	if cmd.Quantity <= 0 {
		return HandleRemoveItem(cover, RemoveItem{ProductID: cmd.ProductID}, state, seq)
	}
	if cmd.Quantity > MaxLineQuantity {
		return nil, store.NewInvalidArgumentf(ErrMsgQuantityTooLarge, MaxLineQuantity)
	}

	i := state.Find(cmd.ProductID)
	if i < 0 {
		return nil, store.NewFailedPrecondition(ErrMsgItemNotInCart)
	}
	old := state.Items[i].Quantity
	if old == cmd.Quantity {
		return store.NoEvents(cover), nil
	}

	return store.PackEvent(cover, QuantityUpdated{
		ProductID:   cmd.ProductID,
		OldQuantity: old,
		NewQuantity: cmd.Quantity,
	}, seq), nil
}

func HandleClearCart(cover store.Cover, _ ClearCart, state *CartState, seq uint32) (*store.EventBook, error) {
	if state.Pristine() {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, CartCleared{ItemCount: ItemCount(*state)}, seq), nil
}

// HandleApplyCoupon resolves a code against the coupon table. An unknown code
// is rejected and leaves any applied coupon in place.
func HandleApplyCoupon(cover store.Cover, cmd ApplyCoupon, state *CartState, seq uint32) (*store.EventBook, error) {
	code := pricing.NormalizeCode(cmd.Code)
	if err := store.RequireNotEmpty(code, ErrMsgCouponCodeRequired); err != nil {
		return nil, err
	}

	coupon, ok := pricing.LookupCoupon(code)
	if !ok {
		return nil, store.NewInvalidArgument(ErrMsgInvalidCoupon)
	}

	var replaced string
	if state.Coupon != nil {
		if state.Coupon.Code == coupon.Code {
			return store.NoEvents(cover), nil
		}
		replaced = state.Coupon.Code
	}

	return store.PackEvent(cover, CouponApplied{Coupon: coupon, Replaced: replaced}, seq), nil
}

func HandleRemoveCoupon(cover store.Cover, _ RemoveCoupon, state *CartState, seq uint32) (*store.EventBook, error) {
	if state.Coupon == nil {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, CouponRemoved{Code: state.Coupon.Code}, seq), nil
}

func HandleSelectDelivery(cover store.Cover, cmd SelectDelivery, state *CartState, seq uint32) (*store.EventBook, error) {
	opt, ok := pricing.LookupDelivery(cmd.OptionID)
	if !ok {
		return nil, store.NewInvalidArgumentf("%s: %s", ErrMsgUnknownDelivery, cmd.OptionID)
	}
	if state.DeliveryID == opt.ID {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, DeliverySelected{OptionID: opt.ID}, seq), nil
}

// NewRouter registers the cart command handlers.
func NewRouter(builder *store.StateBuilder[CartState]) *store.CommandRouter[CartState] {
	return store.NewCommandRouter(store.DomainCart, builder.RebuildFunc()).
		On(CmdAddItem, store.Handle(HandleAddItem)).
		On(CmdRemoveItem, store.Handle(HandleRemoveItem)).
		On(CmdSetQuantity, store.Handle(HandleSetQuantity)).
		On(CmdClearCart, store.Handle(HandleClearCart)).
		On(CmdApplyCoupon, store.Handle(HandleApplyCoupon)).
		On(CmdRemoveCoupon, store.Handle(HandleRemoveCoupon)).
		On(CmdSelectDelivery, store.Handle(HandleSelectDelivery))
}

package logic

// Error message constants for cart domain.
const (
	ErrMsgProductIDRequired  = "Product ID is required"
	ErrMsgQuantityPositive   = "Quantity must be positive"
	ErrMsgQuantityTooLarge   = "Quantity cannot exceed %d per line"
	ErrMsgPriceNegative      = "Price cannot be negative"
	ErrMsgDiscountRange      = "Discount must be 0-100"
	ErrMsgItemNotInCart      = "Item not in cart"
	ErrMsgCouponCodeRequired = "Coupon code is required"
	ErrMsgInvalidCoupon      = "Invalid coupon code"
	ErrMsgUnknownDelivery    = "Unknown delivery option"
	ErrMsgCartEmpty          = "Cart is empty"
)

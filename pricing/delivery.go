package pricing

import "time"

// DeliveryOption is one entry of the static delivery catalog.
type DeliveryOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     Cents  `json:"cost"`
	LeadDays int    `json:"lead_days"`
}

var deliveryOptions = []DeliveryOption{
	{ID: "standard", Name: "Standard Delivery", Cost: 499, LeadDays: 5},
	{ID: "express", Name: "Express Delivery", Cost: 1299, LeadDays: 2},
	{ID: "overnight", Name: "Overnight Delivery", Cost: 2499, LeadDays: 1},
	{ID: "pickup", Name: "Store Pickup", Cost: 0, LeadDays: 0},
}

// DeliveryOptions returns the delivery catalog in display order.
func DeliveryOptions() []DeliveryOption {
	out := make([]DeliveryOption, len(deliveryOptions))
	copy(out, deliveryOptions)
	return out
}

// DefaultDelivery is the option used when none has been selected.
func DefaultDelivery() DeliveryOption {
	return deliveryOptions[0]
}

// LookupDelivery finds a delivery option by id.
func LookupDelivery(id string) (DeliveryOption, bool) {
	for _, opt := range deliveryOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return DeliveryOption{}, false
}

// ResolveDelivery returns the option for id, falling back to the default for
// an empty or unknown id.
func ResolveDelivery(id string) DeliveryOption {
	if opt, ok := LookupDelivery(id); ok {
		return opt
	}
	return DefaultDelivery()
}

// EstimatedArrival is the expected delivery date for an order placed at now.
func (d DeliveryOption) EstimatedArrival(now time.Time) time.Time {
	return now.AddDate(0, 0, d.LeadDays)
}

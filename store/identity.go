package store

import (
	"github.com/google/uuid"
)

// Aggregate domains.
const (
	DomainCart     = "cart"
	DomainWishlist = "wishlist"
)

// ComputeRoot derives a deterministic UUID v5 from a domain and business key.
//
// The UUID is derived from hash("storefront" + domain + business_key) using
// the OID namespace, so the same customer always maps to the same cart.
func ComputeRoot(domain, businessKey string) uuid.UUID {
	seed := "storefront" + domain + businessKey
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}

// CoverFor builds the cover of the aggregate identified by domain and business key.
func CoverFor(domain, businessKey string) Cover {
	return Cover{
		Domain: domain,
		Root:   ComputeRoot(domain, businessKey),
		Key:    businessKey,
	}
}

// CartCover returns the cover of a customer's cart.
func CartCover(customerID string) Cover {
	return CoverFor(DomainCart, customerID)
}

// WishlistCover returns the cover of a customer's wishlist.
func WishlistCover(customerID string) Cover {
	return CoverFor(DomainWishlist, customerID)
}

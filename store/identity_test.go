package store

import "testing"

func TestComputeRoot_isDeterministic(t *testing.T) {
	a := ComputeRoot(DomainCart, "customer-1")
	b := ComputeRoot(DomainCart, "customer-1")
	if a != b {
		t.Errorf("expected same root, got %s and %s", a, b)
	}
	if a.Version() != 5 {
		t.Errorf("expected UUID v5, got v%d", a.Version())
	}
}

func TestComputeRoot_separatesDomainsAndKeys(t *testing.T) {
	cart := ComputeRoot(DomainCart, "customer-1")
	if cart == ComputeRoot(DomainWishlist, "customer-1") {
		t.Error("cart and wishlist must not share a root")
	}
	if cart == ComputeRoot(DomainCart, "customer-2") {
		t.Error("customers must not share a cart")
	}
}

func TestCartCover(t *testing.T) {
	cover := CartCover("customer-1")
	if cover.Domain != DomainCart || cover.Key != "customer-1" {
		t.Errorf("unexpected cover %+v", cover)
	}
	if cover.Root != ComputeRoot(DomainCart, "customer-1") {
		t.Error("cover root does not match computed root")
	}
	if WishlistCover("customer-1").Domain != DomainWishlist {
		t.Error("wishlist cover has wrong domain")
	}
}

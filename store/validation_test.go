package store

import "testing"

func TestRequireNotEmpty(t *testing.T) {
	if err := RequireNotEmpty("sku-1", "required"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := RequireNotEmpty("", "Product ID is required")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != StatusInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err.Code)
	}
}

func TestRequirePositive(t *testing.T) {
	if err := RequirePositive(1, "error"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := RequirePositive(0, "must be positive"); err == nil {
		t.Error("expected error for zero")
	}
	if err := RequirePositive(-1, "must be positive"); err == nil {
		t.Error("expected error for negative")
	}
}

func TestRequireNonNegative(t *testing.T) {
	if err := RequireNonNegative(0, "error"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := RequireNonNegative(-5, "cannot be negative"); err == nil {
		t.Error("expected error for negative")
	}
}

func TestRequireItems(t *testing.T) {
	if err := RequireItems([]int{1}, "empty"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := RequireItems([]string{}, "Cart is empty")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != StatusFailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err.Code)
	}
}

func TestRequireOneOf(t *testing.T) {
	allowed := []string{"card", "paypal"}
	if err := RequireOneOf("card", allowed, "bad"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := RequireOneOf("barter", allowed, "bad"); err == nil {
		t.Error("expected error for value outside the set")
	}
}

func TestFirstError(t *testing.T) {
	if err := FirstError(nil, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := FirstError(nil, NewInvalidArgument("first"), NewInvalidArgument("second"))
	if err == nil || err.Error() != "first" {
		t.Errorf("expected first rejection, got %v", err)
	}
}

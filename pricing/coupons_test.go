package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCoupon_normalizesCode(t *testing.T) {
	for _, code := range []string{"SAVE10", "save10", "  Save10 "} {
		c, ok := LookupCoupon(code)
		require.True(t, ok, "code %q", code)
		assert.Equal(t, "SAVE10", c.Code)
	}

	_, ok := LookupCoupon("BOGUS")
	assert.False(t, ok)
	_, ok = LookupCoupon("")
	assert.False(t, ok)
}

func TestCoupon_Discount(t *testing.T) {
	tests := []struct {
		code     string
		subtotal Cents
		discount Cents
	}{
		{"SAVE10", 18000, 1800},
		{"SAVE15", 18000, 2700},
		{"SAVE20", 18000, 3600},
		{"VIP20", 999, 200},
		{"WELCOME10", 18000, 1000},
		{"WELCOME10", 500, 1000},
		{"FREESHIP", 18000, 0},
	}
	for _, tt := range tests {
		c, ok := LookupCoupon(tt.code)
		require.True(t, ok)
		assert.Equal(t, tt.discount, c.Discount(tt.subtotal), tt.code)
	}
}

func TestCoupon_DeliveryCost(t *testing.T) {
	free, _ := LookupCoupon("FREESHIP")
	assert.Equal(t, Cents(0), free.DeliveryCost(1299))

	save, _ := LookupCoupon("SAVE10")
	assert.Equal(t, Cents(1299), save.DeliveryCost(1299))
}

func TestCoupons_listsTableInOrder(t *testing.T) {
	list := Coupons()
	require.Len(t, list, 6)
	assert.Equal(t, "FREESHIP", list[0].Code)
	assert.Equal(t, "WELCOME10", list[len(list)-1].Code)
}

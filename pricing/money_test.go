package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(v float64) *float64 { return &v }

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    Cents
		discount *float64
		want     Cents
	}{
		{"no discount", 10000, nil, 10000},
		{"zero discount", 10000, pct(0), 10000},
		{"ten percent", 10000, pct(10), 9000},
		{"rounds half away from zero", 999, pct(15), 849},
		{"fractional percent", 2000, pct(12.5), 1750},
		{"full discount", 4500, pct(100), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedPrice(tt.price, tt.discount))
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    Cents
		discount *float64
		qty      int32
		want     Cents
	}{
		{"worked example", 10000, pct(10), 2, 18000},
		{"no quantity", 10000, nil, 0, 0},
		{"no discount", 2550, nil, 3, 7650},
		{"half cent unit price", 99, pct(50), 10, 495},
		{"single half cent unit rounds up", 99, pct(50), 1, 50},
		{"fractional percent", 999, pct(15), 7, 5944},
		{"full discount", 4500, pct(100), 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.price, tt.discount, tt.qty))
		})
	}
}

func TestParseCents(t *testing.T) {
	c, err := ParseCents("12.99")
	require.NoError(t, err)
	assert.Equal(t, Cents(1299), c)

	c, err = ParseCents("0.005")
	require.NoError(t, err)
	assert.Equal(t, Cents(1), c)

	_, err = ParseCents("twelve")
	assert.Error(t, err)
}

func TestCents_String(t *testing.T) {
	assert.Equal(t, "143.63", Cents(14363).String())
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "4.90", Cents(490).String())
}

func TestCents_MulRate(t *testing.T) {
	assert.Equal(t, Cents(1064), Cents(13299).MulRate(decimal.RequireFromString("0.08")))
	assert.Equal(t, Cents(2400), Cents(12000).MulRate(decimal.RequireFromString("0.20")))
}

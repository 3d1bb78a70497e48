package enquiry

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/pkg/config"
)

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		MinimumOrderTotal: decimal.NewFromInt(1200),
		FreeDeliveryAbove: decimal.NewFromInt(1500),
		ReducedFeeAbove:   decimal.NewFromInt(1200),
		ReducedFee:        decimal.NewFromInt(30),
		BaseFee:           decimal.NewFromInt(60),
	}
}

func TestPricingQuote(t *testing.T) {
	t.Parallel()

	pricing := NewPricing(testCheckoutConfig())

	cases := []struct {
		name     string
		subtotal int64
		fee      int64
	}{
		{"base fee below reduced threshold", 1000, 60},
		{"base fee just under reduced threshold", 1199, 60},
		{"reduced fee at threshold", 1200, 30},
		{"reduced fee just under free threshold", 1499, 30},
		{"free at threshold", 1500, 0},
		{"free well above threshold", 5000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Quote(decimal.NewFromInt(tc.subtotal))
			if !got.Equal(decimal.NewFromInt(tc.fee)) {
				t.Fatalf("subtotal %d: expected fee %d, got %s", tc.subtotal, tc.fee, got)
			}
		})
	}
}

func TestPricingMeetsMinimum(t *testing.T) {
	t.Parallel()

	pricing := NewPricing(testCheckoutConfig())

	// The delivery fee counts toward the minimum, so a 1170 cart plus the
	// base 60 fee clears it while 1130 + 60 does not.
	cases := []struct {
		name     string
		subtotal int64
		meets    bool
	}{
		{"subtotal plus base fee clears minimum", 1170, true},
		{"subtotal plus base fee exactly at minimum", 1140, true},
		{"subtotal plus base fee below minimum", 1130, false},
		{"large order clears minimum", 2000, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subtotal := decimal.NewFromInt(tc.subtotal)
			grandTotal := subtotal.Add(pricing.Quote(subtotal))
			if got := pricing.MeetsMinimum(grandTotal); got != tc.meets {
				t.Fatalf("subtotal %d (grand %s): expected meets=%v, got %v",
					tc.subtotal, grandTotal, tc.meets, got)
			}
		})
	}
}

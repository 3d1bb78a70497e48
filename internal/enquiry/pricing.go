package enquiry

import (
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/pkg/config"
)

// Pricing applies the tiered delivery fee schedule and the minimum order
// threshold from configuration.
type Pricing struct {
	cfg config.CheckoutConfig
}

func NewPricing(cfg config.CheckoutConfig) *Pricing {
	return &Pricing{cfg: cfg}
}

// Quote returns the delivery fee for the given cart subtotal.
func (p *Pricing) Quote(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(p.cfg.FreeDeliveryAbove):
		return decimal.Zero
	case subtotal.GreaterThanOrEqual(p.cfg.ReducedFeeAbove):
		return p.cfg.ReducedFee
	default:
		return p.cfg.BaseFee
	}
}

// MeetsMinimum reports whether the grand total clears the minimum order
// threshold. The fee counts toward the total.
func (p *Pricing) MeetsMinimum(grandTotal decimal.Decimal) bool {
	return grandTotal.GreaterThanOrEqual(p.cfg.MinimumOrderTotal)
}

// MinimumOrderTotal exposes the configured threshold for error messages.
func (p *Pricing) MinimumOrderTotal() decimal.Decimal {
	return p.cfg.MinimumOrderTotal
}

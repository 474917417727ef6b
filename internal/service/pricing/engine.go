package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Engine derives a PricingSnapshot from the ticket plus the external
// inputs. It holds no state beyond configuration, so the same engine serves
// every session.
type Engine struct {
	freeShippingThreshold decimal.Decimal
}

// Inputs are the possibly-stale external values a snapshot depends on.
type Inputs struct {
	DeliveryType  domain.DeliveryType
	Quote         *domain.ShippingQuote
	PaymentMethod domain.PaymentMethod
	TenderedCash  *decimal.Decimal
}

// NewEngine returns an engine with the configured free-shipping threshold.
// A non-positive threshold disables free shipping by subtotal.
func NewEngine(freeShippingThreshold decimal.Decimal) *Engine {
	return &Engine{freeShippingThreshold: freeShippingThreshold}
}

// Compute builds the snapshot. All arithmetic stays in exact decimals;
// rounding happens only when a snapshot is rendered.
func (e *Engine) Compute(t *domain.Ticket, in Inputs) domain.PricingSnapshot {
	subtotal := decimal.Zero
	rewardDiscount := decimal.Zero
	for _, line := range t.Lines {
		subtotal = subtotal.Add(line.LineTotal())
		if line.IsReward {
			rewardDiscount = rewardDiscount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}

	snap := domain.PricingSnapshot{
		Subtotal:        subtotal,
		Quote:           in.Quote,
		AppliedShipping: e.appliedShipping(subtotal, in),
		RewardDiscount:  rewardDiscount,
	}

	snap.Total = subtotal.Add(snap.AppliedShipping)
	if snap.Total.IsNegative() {
		snap.Total = decimal.Zero
	}

	if in.PaymentMethod == domain.PaymentMethodCash && in.TenderedCash != nil {
		tendered := *in.TenderedCash
		change := tendered.Sub(snap.Total)
		snap.TenderedCash = &tendered
		// A negative change means insufficient cash and is surfaced as
		// such, never truncated to zero.
		snap.Change = &change
	}

	return snap
}

func (e *Engine) appliedShipping(subtotal decimal.Decimal, in Inputs) decimal.Decimal {
	if in.DeliveryType != domain.DeliveryTypeDelivery {
		return decimal.Zero
	}
	if e.freeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(e.freeShippingThreshold) {
		return decimal.Zero
	}
	if !in.Quote.Settled() {
		// Pending or errored quotes contribute nothing; the snapshot
		// carries the quote status and checkout blocks on it.
		return decimal.Zero
	}
	if in.Quote.IsFree {
		return decimal.Zero
	}
	return in.Quote.Cost
}

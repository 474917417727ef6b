package domain

import "github.com/shopspring/decimal"

// QuoteStatus is the lifecycle of the asynchronous shipping-cost lookup.
type QuoteStatus string

const (
	QuotePending QuoteStatus = "pending"
	QuoteSettled QuoteStatus = "settled"
	QuoteError   QuoteStatus = "error"
)

// ShippingQuote is the latest known result of the shipping-cost lookup for
// the current address. Cost and IsFree are meaningful only when Settled.
type ShippingQuote struct {
	Status  QuoteStatus     `json:"status"`
	Cost    decimal.Decimal `json:"cost"`
	IsFree  bool            `json:"isFree"`
	Message string          `json:"message,omitempty"`
}

// Settled reports whether the quote has a usable result.
func (q *ShippingQuote) Settled() bool {
	return q != nil && q.Status == QuoteSettled
}

// PricingSnapshot is derived from the ticket plus the external inputs and
// recomputed on every mutation. Subtotal already counts the reward line at
// zero; RewardDiscount reports the forgone amount, so against gross line
// prices Total = gross subtotal + AppliedShipping - RewardDiscount, and
// Total is never negative.
type PricingSnapshot struct {
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Quote           *ShippingQuote   `json:"shippingQuote,omitempty"`
	AppliedShipping decimal.Decimal  `json:"appliedShipping"`
	RewardDiscount  decimal.Decimal  `json:"rewardDiscount"`
	Total           decimal.Decimal  `json:"total"`
	TenderedCash    *decimal.Decimal `json:"tenderedCash,omitempty"`
	Change          *decimal.Decimal `json:"change,omitempty"`
}

// InsufficientCash reports whether a tendered amount is present but does not
// cover the total. Comparison happens on exact decimals, never on rounded
// display values.
func (p PricingSnapshot) InsufficientCash() bool {
	return p.Change != nil && p.Change.IsNegative()
}

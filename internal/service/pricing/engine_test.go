package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func settledQuote(cost string, free bool) *domain.ShippingQuote {
	return &domain.ShippingQuote{Status: domain.QuoteSettled, Cost: dec(cost), IsFree: free}
}

func ticketWithLines(lines ...domain.CartLine) *domain.Ticket {
	return &domain.Ticket{Lines: lines}
}

func TestSubtotalSumsLines(t *testing.T) {
	eng := NewEngine(dec("60"))
	tk := ticketWithLines(
		domain.CartLine{LineID: "a", UnitPrice: dec("10"), Quantity: 3},
		domain.CartLine{LineID: "b", UnitPrice: dec("2.50"), Quantity: 2},
	)

	snap := eng.Compute(tk, Inputs{DeliveryType: domain.DeliveryTypePickup})
	if !snap.Subtotal.Equal(dec("35")) {
		t.Fatalf("expected subtotal 35, got %s", snap.Subtotal)
	}
	if !snap.Total.Equal(dec("35")) {
		t.Fatalf("expected total 35, got %s", snap.Total)
	}
	if !snap.AppliedShipping.IsZero() {
		t.Fatalf("pickup must not pay shipping, got %s", snap.AppliedShipping)
	}
}

func TestRewardLineContributesZero(t *testing.T) {
	eng := NewEngine(decimal.Zero)
	tk := ticketWithLines(
		domain.CartLine{LineID: "a", UnitPrice: dec("8"), Quantity: 1},
		domain.CartLine{LineID: "b", UnitPrice: dec("15"), Quantity: 1, IsReward: true},
		domain.CartLine{LineID: "c", UnitPrice: dec("10"), Quantity: 1},
	)

	snap := eng.Compute(tk, Inputs{DeliveryType: domain.DeliveryTypePickup})
	if !snap.Subtotal.Equal(dec("18")) {
		t.Fatalf("expected subtotal 18 with zeroed reward line, got %s", snap.Subtotal)
	}
	if !snap.RewardDiscount.Equal(dec("15")) {
		t.Fatalf("expected reward discount 15, got %s", snap.RewardDiscount)
	}

	// total = gross subtotal + shipping - reward discount
	gross := dec("33")
	want := gross.Add(snap.AppliedShipping).Sub(snap.RewardDiscount)
	if !snap.Total.Equal(want) {
		t.Fatalf("pricing identity broken: total %s, want %s", snap.Total, want)
	}
	if snap.Total.IsNegative() {
		t.Fatal("total must never be negative")
	}
}

func TestShippingBelowAndAboveThreshold(t *testing.T) {
	eng := NewEngine(dec("60"))
	quote := settledQuote("5", false)

	below := ticketWithLines(domain.CartLine{LineID: "a", UnitPrice: dec("50"), Quantity: 1})
	snap := eng.Compute(below, Inputs{DeliveryType: domain.DeliveryTypeDelivery, Quote: quote})
	if !snap.AppliedShipping.Equal(dec("5")) {
		t.Fatalf("expected shipping 5 below threshold, got %s", snap.AppliedShipping)
	}
	if !snap.Total.Equal(dec("55")) {
		t.Fatalf("expected total 55, got %s", snap.Total)
	}

	above := ticketWithLines(
		domain.CartLine{LineID: "a", UnitPrice: dec("50"), Quantity: 1},
		domain.CartLine{LineID: "b", UnitPrice: dec("15"), Quantity: 1},
	)
	snap = eng.Compute(above, Inputs{DeliveryType: domain.DeliveryTypeDelivery, Quote: quote})
	if !snap.AppliedShipping.IsZero() {
		t.Fatalf("expected free shipping at subtotal %s, got %s", snap.Subtotal, snap.AppliedShipping)
	}
}

func TestShippingFreeQuote(t *testing.T) {
	eng := NewEngine(dec("60"))
	tk := ticketWithLines(domain.CartLine{LineID: "a", UnitPrice: dec("10"), Quantity: 1})

	snap := eng.Compute(tk, Inputs{DeliveryType: domain.DeliveryTypeDelivery, Quote: settledQuote("5", true)})
	if !snap.AppliedShipping.IsZero() {
		t.Fatalf("expected free-marked quote to waive shipping, got %s", snap.AppliedShipping)
	}
}

func TestPendingQuoteContributesNothing(t *testing.T) {
	eng := NewEngine(dec("60"))
	tk := ticketWithLines(domain.CartLine{LineID: "a", UnitPrice: dec("10"), Quantity: 1})
	pending := &domain.ShippingQuote{Status: domain.QuotePending}

	snap := eng.Compute(tk, Inputs{DeliveryType: domain.DeliveryTypeDelivery, Quote: pending})
	if !snap.AppliedShipping.IsZero() {
		t.Fatalf("pending quote applied shipping %s", snap.AppliedShipping)
	}
	if snap.Quote == nil || snap.Quote.Status != domain.QuotePending {
		t.Fatal("snapshot must carry the pending quote status")
	}
}

func TestCashChange(t *testing.T) {
	eng := NewEngine(decimal.Zero)
	tk := ticketWithLines(domain.CartLine{LineID: "a", UnitPrice: dec("12.50"), Quantity: 2})

	tendered := dec("30")
	snap := eng.Compute(tk, Inputs{
		DeliveryType:  domain.DeliveryTypePickup,
		PaymentMethod: domain.PaymentMethodCash,
		TenderedCash:  &tendered,
	})
	if snap.Change == nil || !snap.Change.Equal(dec("5")) {
		t.Fatalf("expected change 5, got %v", snap.Change)
	}
	if snap.InsufficientCash() {
		t.Fatal("30 covers a 25 total")
	}

	short := dec("20")
	snap = eng.Compute(tk, Inputs{
		DeliveryType:  domain.DeliveryTypePickup,
		PaymentMethod: domain.PaymentMethodCash,
		TenderedCash:  &short,
	})
	if snap.Change == nil || !snap.Change.Equal(dec("-5")) {
		t.Fatalf("expected negative change -5, got %v", snap.Change)
	}
	if !snap.InsufficientCash() {
		t.Fatal("short tender must be classified insufficient")
	}
}

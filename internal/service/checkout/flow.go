package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/pricing"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/ticket"
)

// ShippingQuoter looks up the delivery cost for an address. Invoked only on
// the delivery path.
type ShippingQuoter interface {
	Quote(ctx context.Context, address string, subtotal decimal.Decimal) (domain.ShippingQuote, error)
}

// PaymentIntent is what the gateway needs to confirm a card payment.
type PaymentIntent struct {
	Amount decimal.Decimal `json:"amount"`
	Phone  string          `json:"phone"`
}

// Confirmation is the gateway's answer. A decline is a Confirmation with
// Confirmed false and the gateway's message, not an error.
type Confirmation struct {
	Confirmed bool   `json:"confirmed"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PaymentGateway confirms card payments with the external processor.
type PaymentGateway interface {
	Confirm(ctx context.Context, intent PaymentIntent) (Confirmation, error)
}

// OrderSubmitter persists a composed order and returns its backend id.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order domain.Order) (string, error)
}

// DeclinedError carries the gateway's message when a card is declined. The
// flow is back in PaymentMethod when the caller sees it.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	return "payment declined: " + e.Message
}

// Flow sequences one checkout from Cart to a terminal state. The session
// owner serializes all user actions, including every read of the ticket;
// the internal mutex guards the flow's own fields against the async quote
// goroutine, which works on values captured when the address was set and
// never touches the ticket.
type Flow struct {
	agg      *ticket.Aggregate
	engine   *pricing.Engine
	quoter   ShippingQuoter
	payments PaymentGateway
	orders   OrderSubmitter
	logger   *log.Logger

	mu    sync.Mutex
	state domain.CheckoutState
	draft domain.CheckoutDraft

	quote *domain.ShippingQuote
	// quoteGen and quoteSubtotal belong to the current address edit; the
	// subtotal is captured up front so the quote goroutine has no reason
	// to read the ticket.
	quoteGen      uint64
	quoteSubtotal decimal.Decimal

	confirmInFlight bool
	pendingOrder    *domain.Order
	orderID         string
}

// NewFlow returns a flow in the Cart state for the given ticket.
func NewFlow(agg *ticket.Aggregate, engine *pricing.Engine, quoter ShippingQuoter, payments PaymentGateway, orders OrderSubmitter, logger *log.Logger) *Flow {
	return &Flow{
		agg:      agg,
		engine:   engine,
		quoter:   quoter,
		payments: payments,
		orders:   orders,
		logger:   logger,
		state:    domain.StateCart,
	}
}

// State returns the current checkout state.
func (f *Flow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the draft.
func (f *Flow) Draft() domain.CheckoutDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// OrderID returns the backend order id once the flow has succeeded.
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// Snapshot recomputes pricing from the ticket and the flow's current
// external inputs.
func (f *Flow) Snapshot() domain.PricingSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() domain.PricingSnapshot {
	return f.engine.Compute(f.agg.Ticket(), pricing.Inputs{
		DeliveryType:  f.draft.DeliveryType,
		Quote:         f.quote,
		PaymentMethod: f.draft.PaymentMethod,
		TenderedCash:  f.draft.CashTendered,
	})
}

// Begin moves Cart -> ContactInfo. Requires a non-empty ticket and a
// syntactically valid phone number.
func (f *Flow) Begin(phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateCart {
		return f.transitionErrLocked("begin")
	}
	if f.agg.Ticket().IsEmpty() {
		return domain.ErrEmptyTicket
	}
	if !validPhone(phone) {
		return domain.ErrInvalidPhone
	}
	f.draft.ContactPhone = phone
	f.state = domain.StateContactInfo
	return nil
}

// ChooseDelivery moves ContactInfo -> AddressSelection for delivery, or
// straight to PaymentMethod for pickup (address selection is skipped).
func (f *Flow) ChooseDelivery(dt domain.DeliveryType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateContactInfo {
		return f.transitionErrLocked("choose delivery")
	}
	switch dt {
	case domain.DeliveryTypeDelivery:
		f.draft.DeliveryType = dt
		f.state = domain.StateAddressSelection
	case domain.DeliveryTypePickup:
		f.draft.DeliveryType = dt
		f.draft.Address = ""
		f.quote = nil
		f.state = domain.StatePaymentMethod
	default:
		return fmt.Errorf("unknown delivery type %q", dt)
	}
	return nil
}

// SetAddress records the address and starts a new quote generation, marking
// the quote Pending. The subtotal for the lookup is captured here, while the
// session owner still holds the ticket. The returned generation must be
// passed to FetchQuote; an older generation's result is discarded.
// Re-editing the address while still in AddressSelection supersedes any
// in-flight lookup.
func (f *Flow) SetAddress(address string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateAddressSelection {
		return 0, f.transitionErrLocked("set address")
	}
	if address == "" {
		return 0, domain.ErrAddressRequired
	}
	f.draft.Address = address
	f.quoteGen++
	f.quote = &domain.ShippingQuote{Status: domain.QuotePending}
	f.quoteSubtotal = f.snapshotLocked().Subtotal
	return f.quoteGen, nil
}

// FetchQuote performs the blocking shipping lookup for the given generation
// and applies the result only if that generation is still current. Stale
// results are dropped silently; a newer address edit has superseded them.
// It runs off the session goroutine, so it uses only the address and
// subtotal captured by SetAddress.
func (f *Flow) FetchQuote(ctx context.Context, gen uint64) {
	f.mu.Lock()
	if gen != f.quoteGen {
		f.mu.Unlock()
		return
	}
	address := f.draft.Address
	subtotal := f.quoteSubtotal
	f.mu.Unlock()

	quote, err := f.quoter.Quote(ctx, address, subtotal)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.quoteGen {
		return
	}
	if err != nil {
		f.logger.Printf("shipping quote for %q failed: %v", address, err)
		f.quote = &domain.ShippingQuote{Status: domain.QuoteError, Message: err.Error()}
		return
	}
	quote.Status = domain.QuoteSettled
	f.quote = &quote
}

// ConfirmAddress moves AddressSelection -> PaymentMethod. Requires an
// address and a settled quote; a pending or errored quote blocks the
// transition and leaves state unchanged.
func (f *Flow) ConfirmAddress() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.StateAddressSelection {
		return f.transitionErrLocked("confirm address")
	}
	if f.draft.Address == "" {
		return domain.ErrAddressRequired
	}
	switch {
	case f.quote == nil || f.quote.Status == domain.QuotePending:
		return domain.ErrQuotePending
	case f.quote.Status == domain.QuoteError:
		return domain.ErrQuoteFailed
	}
	f.state = domain.StatePaymentMethod
	return nil
}

// ChoosePayment records the payment method. Card moves to
// ExternalConfirmation. Cash requires the tendered amount to cover the
// total and goes straight to submission; short tenders stay in
// PaymentMethod with ErrInsufficientCash.
func (f *Flow) ChoosePayment(ctx context.Context, method domain.PaymentMethod, cashTendered *decimal.Decimal) error {
	f.mu.Lock()
	if f.state != domain.StatePaymentMethod {
		defer f.mu.Unlock()
		return f.transitionErrLocked("choose payment")
	}
	switch method {
	case domain.PaymentMethodCard:
		f.draft.PaymentMethod = method
		f.draft.CashTendered = nil
		f.state = domain.StateExternalConfirmation
		f.mu.Unlock()
		return nil
	case domain.PaymentMethodCash:
		f.draft.PaymentMethod = method
		f.draft.CashTendered = cashTendered
		snap := f.snapshotLocked()
		if cashTendered == nil || snap.InsufficientCash() {
			f.mu.Unlock()
			return domain.ErrInsufficientCash
		}
		f.state = domain.StateSubmitting
		f.mu.Unlock()
		return f.submit(ctx)
	default:
		f.mu.Unlock()
		return fmt.Errorf("unknown payment method %q", method)
	}
}

// ConfirmPayment runs the external card confirmation. Only one confirmation
// may be in flight; a decline or transport error returns the flow to
// PaymentMethod with the ticket and draft untouched, so retrying is safe.
// Success records the payment reference and submits the order.
func (f *Flow) ConfirmPayment(ctx context.Context) error {
	f.mu.Lock()
	if f.state != domain.StateExternalConfirmation {
		defer f.mu.Unlock()
		return f.transitionErrLocked("confirm payment")
	}
	if f.confirmInFlight {
		f.mu.Unlock()
		return domain.ErrConfirmationInFlight
	}
	f.confirmInFlight = true
	intent := PaymentIntent{
		Amount: f.snapshotLocked().Total,
		Phone:  f.draft.ContactPhone,
	}
	f.mu.Unlock()

	conf, err := f.payments.Confirm(ctx, intent)

	f.mu.Lock()
	f.confirmInFlight = false
	if err != nil {
		f.state = domain.StatePaymentMethod
		f.mu.Unlock()
		return fmt.Errorf("payment confirmation: %w", err)
	}
	if !conf.Confirmed {
		f.state = domain.StatePaymentMethod
		f.mu.Unlock()
		return &DeclinedError{Message: conf.Message}
	}
	f.draft.PaymentReference = conf.Reference
	f.state = domain.StateSubmitting
	f.mu.Unlock()

	// Confirmation success strictly precedes submission on the card path.
	return f.submit(ctx)
}

// Retry resubmits the order from the Failed state. It is user-initiated,
// reuses the existing payment reference and order payload, and never
// re-confirms the payment.
func (f *Flow) Retry(ctx context.Context) error {
	f.mu.Lock()
	if f.state != domain.StateFailed {
		defer f.mu.Unlock()
		return f.transitionErrLocked("retry submission")
	}
	f.state = domain.StateSubmitting
	f.mu.Unlock()
	return f.submit(ctx)
}

// Cancel abandons the checkout and returns to Cart with the ticket
// untouched. Not allowed once submission has been issued, and Failed must
// be resolved by retry or an operator, not abandoned.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case domain.StateSubmitting, domain.StateSucceeded, domain.StateFailed:
		return f.transitionErrLocked("cancel")
	}
	f.draft = domain.CheckoutDraft{}
	f.quote = nil
	f.quoteGen++
	f.pendingOrder = nil
	f.state = domain.StateCart
	return nil
}

// submit runs the backend call with the lock released. The Submitting state
// keeps every other transition out while it runs.
func (f *Flow) submit(ctx context.Context) error {
	f.mu.Lock()
	if f.pendingOrder == nil {
		order := f.buildOrderLocked()
		f.pendingOrder = &order
	}
	order := *f.pendingOrder
	f.mu.Unlock()

	orderID, err := f.orders.SubmitOrder(ctx, order)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if order.PaymentReference != "" {
			// The payment is captured but the order is not recorded.
			// Terminal state: keep the reference for reconciliation and
			// never retry on our own, a second submission could mean a
			// double charge if the first one landed.
			f.state = domain.StateFailed
			f.logger.Printf("order submission failed after captured payment %s: %v", order.PaymentReference, err)
			return fmt.Errorf("order submission failed, payment %s captured: %w", order.PaymentReference, err)
		}
		f.state = domain.StatePaymentMethod
		f.pendingOrder = nil
		return fmt.Errorf("order submission: %w", err)
	}

	f.orderID = orderID
	f.state = domain.StateSucceeded
	f.pendingOrder = nil
	f.agg.Clear()
	f.draft = domain.CheckoutDraft{}
	f.quote = nil
	return nil
}

func (f *Flow) buildOrderLocked() domain.Order {
	snap := f.snapshotLocked()
	tk := f.agg.Ticket()

	items := make([]domain.OrderItem, 0, len(tk.Lines))
	for _, line := range tk.Lines {
		items = append(items, domain.OrderItem{
			ProductID:          line.ProductID,
			Name:               line.Name,
			Quantity:           line.Quantity,
			UnitPrice:          line.EffectiveUnitPrice(),
			OptionsDescription: describeOptions(line.Options),
		})
	}

	return domain.Order{
		ID:               uuid.NewString(),
		Items:            items,
		Subtotal:         snap.Subtotal,
		Shipping:         snap.AppliedShipping,
		Total:            snap.Total,
		DeliveryType:     f.draft.DeliveryType,
		Address:          f.draft.Address,
		Phone:            f.draft.ContactPhone,
		PaymentMethod:    f.draft.PaymentMethod,
		CashTendered:     snap.TenderedCash,
		Change:           snap.Change,
		PaymentReference: f.draft.PaymentReference,
		CreatedAt:        time.Now().UTC(),
	}
}

func (f *Flow) transitionErrLocked(action string) error {
	return fmt.Errorf("%w: cannot %s in state %s", domain.ErrInvalidTransition, action, f.state)
}

func describeOptions(options []domain.Option) string {
	if len(options) == 0 {
		return ""
	}
	desc := ""
	for i, opt := range options {
		if i > 0 {
			desc += ", "
		}
		desc += opt.Name
	}
	return desc
}

package domain

import "github.com/shopspring/decimal"

// DeliveryType selects how the order reaches the customer.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

// CheckoutState is the single enumerated state driving which action is
// allowed next.
type CheckoutState string

const (
	StateCart                 CheckoutState = "cart"
	StateContactInfo          CheckoutState = "contact_info"
	StateAddressSelection     CheckoutState = "address_selection"
	StatePaymentMethod        CheckoutState = "payment_method"
	StateExternalConfirmation CheckoutState = "external_confirmation"
	StateSubmitting           CheckoutState = "submitting"
	StateSucceeded            CheckoutState = "succeeded"
	StateFailed               CheckoutState = "failed"
)

// IsTerminal reports whether the flow has finished.
func (s CheckoutState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// CheckoutDraft collects what the state machine gathers on the way to
// submission. It is mutated only by guarded transitions and discarded on
// success or cancellation. PaymentReference is set only after the gateway
// confirms a card payment; in the Failed state it is the handle for manual
// reconciliation and must never be dropped.
type CheckoutDraft struct {
	ContactPhone     string           `json:"contactPhone"`
	DeliveryType     DeliveryType     `json:"deliveryType,omitempty"`
	Address          string           `json:"address,omitempty"`
	PaymentMethod    PaymentMethod    `json:"paymentMethod,omitempty"`
	CashTendered     *decimal.Decimal `json:"cashTendered,omitempty"`
	PaymentReference string           `json:"paymentReference,omitempty"`
}

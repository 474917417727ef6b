package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one submitted line, flattened for the backend.
type OrderItem struct {
	ProductID          string          `json:"id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	OptionsDescription string          `json:"optionsDescription,omitempty"`
}

// Order is the payload handed to the order-submission backend once the
// checkout flow reaches Submitting.
type Order struct {
	ID               string           `json:"id"`
	Items            []OrderItem      `json:"items"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	Shipping         decimal.Decimal  `json:"shipping"`
	Total            decimal.Decimal  `json:"total"`
	DeliveryType     DeliveryType     `json:"deliveryType"`
	Address          string           `json:"address,omitempty"`
	Phone            string           `json:"phone"`
	PaymentMethod    PaymentMethod    `json:"paymentMethod"`
	CashTendered     *decimal.Decimal `json:"cashTendered,omitempty"`
	Change           *decimal.Decimal `json:"change,omitempty"`
	PaymentReference string           `json:"paymentReference,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

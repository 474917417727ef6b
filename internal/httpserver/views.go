package httpserver

import (
	"time"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Rounding to two decimals happens here and only here; everything upstream
// compares exact decimals.

type optionView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AdditionalPrice string `json:"additionalPrice"`
}

type lineView struct {
	LineID    string       `json:"lineId"`
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	UnitPrice string       `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	IsReward  bool         `json:"isReward"`
	Options   []optionView `json:"options,omitempty"`
	LineTotal string       `json:"lineTotal"`
}

type quoteView struct {
	Status  string `json:"status"`
	Cost    string `json:"cost,omitempty"`
	IsFree  bool   `json:"isFree,omitempty"`
	Message string `json:"message,omitempty"`
}

type pricingView struct {
	Subtotal        string     `json:"subtotal"`
	ShippingQuote   *quoteView `json:"shippingQuote,omitempty"`
	AppliedShipping string     `json:"appliedShipping"`
	RewardDiscount  string     `json:"rewardDiscount"`
	Total           string     `json:"total"`
	TenderedCash    string     `json:"tenderedCash,omitempty"`
	Change          string     `json:"change,omitempty"`
	Insufficient    bool       `json:"insufficient,omitempty"`
}

type ticketView struct {
	Lines           []lineView  `json:"lines"`
	AppliedRewardID string      `json:"appliedRewardId,omitempty"`
	Pricing         pricingView `json:"pricing"`
}

type checkoutView struct {
	State   string               `json:"state"`
	Draft   domain.CheckoutDraft `json:"draft"`
	Pricing pricingView          `json:"pricing"`
	OrderID string               `json:"orderId,omitempty"`
}

type orderItemView struct {
	ProductID          string `json:"productId"`
	Name               string `json:"name"`
	Quantity           int    `json:"quantity"`
	UnitPrice          string `json:"unitPrice"`
	OptionsDescription string `json:"optionsDescription,omitempty"`
}

type orderView struct {
	OrderID          string          `json:"orderId"`
	Items            []orderItemView `json:"items"`
	Subtotal         string          `json:"subtotal"`
	Shipping         string          `json:"shipping"`
	Total            string          `json:"total"`
	DeliveryType     string          `json:"deliveryType"`
	Address          string          `json:"address,omitempty"`
	Phone            string          `json:"phone"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func toOrderView(order *domain.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ProductID:          item.ProductID,
			Name:               item.Name,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice.StringFixed(2),
			OptionsDescription: item.OptionsDescription,
		})
	}
	return orderView{
		OrderID:          order.ID,
		Items:            items,
		Subtotal:         order.Subtotal.StringFixed(2),
		Shipping:         order.Shipping.StringFixed(2),
		Total:            order.Total.StringFixed(2),
		DeliveryType:     string(order.DeliveryType),
		Address:          order.Address,
		Phone:            order.Phone,
		PaymentMethod:    string(order.PaymentMethod),
		PaymentReference: order.PaymentReference,
		CreatedAt:        order.CreatedAt,
	}
}

func toTicketView(t *domain.Ticket, snap domain.PricingSnapshot) ticketView {
	lines := make([]lineView, 0, len(t.Lines))
	for _, line := range t.Lines {
		lines = append(lines, toLineView(line))
	}
	return ticketView{
		Lines:           lines,
		AppliedRewardID: t.AppliedRewardID,
		Pricing:         toPricingView(snap),
	}
}

func toLineView(line domain.CartLine) lineView {
	opts := make([]optionView, 0, len(line.Options))
	for _, opt := range line.Options {
		opts = append(opts, optionView{
			ID:              opt.ID,
			Name:            opt.Name,
			AdditionalPrice: opt.AdditionalPrice.StringFixed(2),
		})
	}
	return lineView{
		LineID:    line.LineID,
		ProductID: line.ProductID,
		Name:      line.Name,
		UnitPrice: line.UnitPrice.StringFixed(2),
		Quantity:  line.Quantity,
		IsReward:  line.IsReward,
		Options:   opts,
		LineTotal: line.LineTotal().StringFixed(2),
	}
}

func toPricingView(snap domain.PricingSnapshot) pricingView {
	view := pricingView{
		Subtotal:        snap.Subtotal.StringFixed(2),
		AppliedShipping: snap.AppliedShipping.StringFixed(2),
		RewardDiscount:  snap.RewardDiscount.StringFixed(2),
		Total:           snap.Total.StringFixed(2),
	}
	if snap.Quote != nil {
		qv := quoteView{Status: string(snap.Quote.Status), Message: snap.Quote.Message}
		if snap.Quote.Settled() {
			qv.Cost = snap.Quote.Cost.StringFixed(2)
			qv.IsFree = snap.Quote.IsFree
		}
		view.ShippingQuote = &qv
	}
	if snap.TenderedCash != nil {
		view.TenderedCash = snap.TenderedCash.StringFixed(2)
	}
	if snap.Change != nil {
		view.Change = snap.Change.StringFixed(2)
		view.Insufficient = snap.InsufficientCash()
	}
	return view
}

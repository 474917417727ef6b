// Package events publishes submitted orders to the shop's fulfillment queue.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Publisher sends order.submitted events to the fulfillment queue. Losing
// an event never fails the order; the caller logs and moves on.
type Publisher struct {
	pool  *channelPool
	queue string
}

type orderSubmitted struct {
	OrderID      string              `json:"orderId"`
	Items        []domain.OrderItem  `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	DeliveryType domain.DeliveryType `json:"deliveryType"`
	Address      string              `json:"address,omitempty"`
	Phone        string              `json:"phone"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// NewPublisher connects to the broker and pre-creates poolSize channels.
func NewPublisher(amqpURL, queue string, poolSize int) (*Publisher, error) {
	pool, err := newChannelPool(amqpURL, queue, poolSize)
	if err != nil {
		return nil, err
	}
	return &Publisher{pool: pool, queue: queue}, nil
}

// OrderSubmitted publishes one persistent JSON event for the order.
func (p *Publisher) OrderSubmitted(ctx context.Context, order domain.Order, orderID string) error {
	ch, err := p.pool.get()
	if err != nil {
		return fmt.Errorf("get channel from pool: %w", err)
	}
	defer p.pool.put(ch)

	body, err := json.Marshal(orderSubmitted{
		OrderID:      orderID,
		Items:        order.Items,
		Total:        order.Total,
		DeliveryType: order.DeliveryType,
		Address:      order.Address,
		Phone:        order.Phone,
		CreatedAt:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := ch.PublishWithContext(pubCtx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// Close releases the channels and the connection.
func (p *Publisher) Close() {
	p.pool.close()
}

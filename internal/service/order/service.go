package order

import (
	"context"
	"fmt"
	"log"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// repo is the slice of the order repository this service needs.
type repo interface {
	Save(ctx context.Context, order domain.Order) (string, error)
}

// Publisher notifies fulfillment about submitted orders.
type Publisher interface {
	OrderSubmitted(ctx context.Context, order domain.Order, orderID string) error
}

// Service is the order-submission backend: it persists the order and then
// tells fulfillment. Publishing is best-effort; the order stands even when
// the broker is down.
type Service struct {
	repo      repo
	publisher Publisher
	logger    *log.Logger
}

// New builds the service. publisher may be nil when no broker is configured.
func New(repo repo, publisher Publisher, logger *log.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// SubmitOrder implements checkout.OrderSubmitter.
func (s *Service) SubmitOrder(ctx context.Context, order domain.Order) (string, error) {
	orderID, err := s.repo.Save(ctx, order)
	if err != nil {
		return "", fmt.Errorf("save order: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.OrderSubmitted(ctx, order, orderID); err != nil {
			s.logger.Printf("publish order %s to fulfillment failed: %v", orderID, err)
		}
	}
	return orderID, nil
}

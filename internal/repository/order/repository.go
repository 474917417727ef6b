package order

import (
	"context"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

// Repository persists submitted orders.
type Repository interface {
	// Save records the order and its items. Saving an id that already
	// exists is a success, so a user-initiated resubmission after a
	// partial failure never duplicates the order.
	Save(ctx context.Context, order domain.Order) (string, error)

	// GetByID loads a stored order, domain.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

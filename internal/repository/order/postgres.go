package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Save(ctx context.Context, order domain.Order) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (id, phone, delivery_type, address, payment_method, subtotal, shipping, total, cash_tendered, cash_change, payment_reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO NOTHING
`
	tag, err := tx.Exec(ctx, insertOrder,
		order.ID,
		order.Phone,
		string(order.DeliveryType),
		order.Address,
		string(order.PaymentMethod),
		order.Subtotal,
		order.Shipping,
		order.Total,
		order.CashTendered,
		order.Change,
		order.PaymentReference,
		order.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already recorded by an earlier submission attempt.
		return order.ID, tx.Commit(ctx)
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, options_description)
VALUES ($1, $2, $3, $4, $5, $6)
`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, insertItem,
			order.ID,
			item.ProductID,
			item.Name,
			item.Quantity,
			item.UnitPrice,
			item.OptionsDescription,
		); err != nil {
			return "", fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit order tx: %w", err)
	}
	return order.ID, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const orderQuery = `
SELECT id::text, phone, delivery_type, address, payment_method, subtotal, shipping, total, cash_tendered, cash_change, payment_reference, created_at
FROM orders
WHERE id = $1
`
	var order domain.Order
	var deliveryType, paymentMethod string
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.Phone,
		&deliveryType,
		&order.Address,
		&paymentMethod,
		&order.Subtotal,
		&order.Shipping,
		&order.Total,
		&order.CashTendered,
		&order.Change,
		&order.PaymentReference,
		&order.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	order.DeliveryType = domain.DeliveryType(deliveryType)
	order.PaymentMethod = domain.PaymentMethod(paymentMethod)

	const itemsQuery = `
SELECT product_id, name, quantity, unit_price, options_description
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.OptionsDescription); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return &order, nil
}

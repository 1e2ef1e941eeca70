package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verdegat/market-api/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const headerStmt = `
INSERT INTO orders (id, buyer_id, total_amount, created_at)
VALUES ($1, $2, $3, $4)`

	if _, err := r.exec(ctx, headerStmt, order.ID, order.BuyerID, order.TotalAmount, order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	const itemStmt = `
INSERT INTO order_items (order_id, position, product_id, name, quantity, price)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i, item := range order.Items {
		if _, err := r.exec(ctx, itemStmt, order.ID, i, item.ProductID, item.Name, item.Quantity, item.Price); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}
	return nil
}

// AdjustProductQuantity applies the delta in a single UPDATE so concurrent
// orders against the same product serialize at the row, and returns what the
// row looked like after. The quantity is allowed to go negative.
func (r *OrderRepository) AdjustProductQuantity(ctx context.Context, productID string, delta float64) (float64, bool, error) {
	const stmt = `
UPDATE products
SET quantity = quantity + $2
WHERE id = $1
RETURNING quantity, available`

	var quantity float64
	var available bool
	err := r.queryRow(ctx, stmt, productID, delta).Scan(&quantity, &available)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, false, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, false, domain.ErrProductNotFound
		}
		return 0, false, fmt.Errorf("adjust quantity: %w", err)
	}
	return quantity, available, nil
}

func (r *OrderRepository) SetProductAvailability(ctx context.Context, productID string, available bool) error {
	const stmt = `UPDATE products SET available = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, productID, available)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ClearCartItems empties the buyer's cart without touching the cart row.
// A buyer with no cart is a no-op, matching checkout semantics.
func (r *OrderRepository) ClearCartItems(ctx context.Context, buyerID string) error {
	const stmt = `
DELETE FROM cart_items
USING carts
WHERE cart_items.cart_id = carts.id AND carts.buyer_id = $1`

	if _, err := r.exec(ctx, stmt, buyerID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

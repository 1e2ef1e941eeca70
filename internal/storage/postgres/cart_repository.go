package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verdegat/market-api/internal/domain"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CartRepository) GetCartByBuyer(ctx context.Context, buyerID string) (*domain.Cart, error) {
	const query = `SELECT id, buyer_id, created_at, updated_at FROM carts WHERE buyer_id = $1`

	var c domain.Cart
	err := r.queryRow(ctx, query, buyerID).Scan(&c.ID, &c.BuyerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// EnsureCart upserts on the buyer's unique key, so two concurrent first adds
// converge on the same cart row.
func (r *CartRepository) EnsureCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	const stmt = `
INSERT INTO carts (buyer_id, created_at, updated_at)
VALUES ($1, $2, $2)
ON CONFLICT (buyer_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id, buyer_id, created_at, updated_at`

	var c domain.Cart
	err := r.queryRow(ctx, stmt, cart.BuyerID, cart.UpdatedAt).
		Scan(&c.ID, &c.BuyerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("ensure cart: %w", err)
	}
	return c, nil
}

// AddItem inserts the line or, when the product is already in the cart,
// increments its quantity. One statement, so concurrent adds both land.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID string, quantity float64) error {
	const stmt = `
INSERT INTO cart_items (cart_id, product_id, quantity, added_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	if _, err := r.exec(ctx, stmt, cartID, productID, quantity); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, productID string, quantity float64) error {
	const stmt = `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2`

	tag, err := r.exec(ctx, stmt, cartID, productID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// RemoveItem is idempotent: deleting a line that is not there affects zero
// rows and that is fine.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID string) error {
	const stmt = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	if _, err := r.exec(ctx, stmt, cartID, productID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID string) error {
	const stmt = `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := r.exec(ctx, stmt, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}

// ResolvedItems joins the live catalog rows in, in the order items were
// added. Lines whose product no longer resolves are dropped from the view
// (identifier references only, no ownership).
func (r *CartRepository) ResolvedItems(ctx context.Context, cartID string) ([]domain.ResolvedCartItem, error) {
	const query = `
SELECT p.id, p.name, p.price, p.price_unit, p.category, p.description, p.quantity, p.available, p.created_at,
       ci.quantity
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.added_at, p.id`

	rows, err := r.query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("resolve cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ResolvedCartItem, 0)
	for rows.Next() {
		var item domain.ResolvedCartItem
		var unit string
		if err := rows.Scan(
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Price,
			&unit,
			&item.Product.Category,
			&item.Product.Description,
			&item.Product.Quantity,
			&item.Product.Available,
			&item.Product.CreatedAt,
			&item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Product.PriceUnit = domain.PriceUnit(unit)
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate cart items: %w", rows.Err())
	}
	return items, nil
}

func (r *CartRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CartRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CartRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/verdegat/market-api/internal/domain"
	"github.com/verdegat/market-api/internal/testutil"
)

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOrderRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateOrder persists the header and line items", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})

		order := domain.Order{
			ID:      uuid.NewString(),
			BuyerID: "buyer-1",
			Items: []domain.OrderItem{
				{ProductID: productID, Name: "Tomatoes", Quantity: 2, Price: 10},
				{ProductID: productID, Name: "Tomatoes", Quantity: 1, Price: 10},
			},
			TotalAmount: 30,
			CreatedAt:   time.Now().UTC(),
		}

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.CreateOrder(txCtx, order)
		})
		if err != nil {
			t.Fatalf("create order: %v", err)
		}

		var total float64
		if err := pool.QueryRow(ctx, `SELECT total_amount FROM orders WHERE id = $1`, order.ID).Scan(&total); err != nil {
			t.Fatalf("query order: %v", err)
		}
		if total != 30 {
			t.Fatalf("expected total 30, got %v", total)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID).Scan(&count); err != nil {
			t.Fatalf("query items: %v", err)
		}
		if count != 2 {
			t.Fatalf("expected 2 line items, got %d", count)
		}
	})

	t.Run("CreateOrder accepts a product id with no catalog row", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		order := domain.Order{
			ID:      uuid.NewString(),
			BuyerID: "buyer-1",
			Items: []domain.OrderItem{
				{ProductID: uuid.NewString(), Name: "Ghost", Quantity: 1, Price: 4},
			},
			TotalAmount: 4,
			CreatedAt:   time.Now().UTC(),
		}

		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("expected ledger insert to succeed without the product, got %v", err)
		}
	})

	t.Run("AdjustProductQuantity applies the delta and reports the row", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})

		quantity, available, err := repo.AdjustProductQuantity(ctx, productID, -2)
		if err != nil {
			t.Fatalf("adjust: %v", err)
		}
		if quantity != 3 || !available {
			t.Fatalf("expected (3, true), got (%v, %v)", quantity, available)
		}

		quantity, _, err = repo.AdjustProductQuantity(ctx, productID, -5)
		if err != nil {
			t.Fatalf("adjust below zero: %v", err)
		}
		if quantity != -2 {
			t.Fatalf("expected quantity to go negative, got %v", quantity)
		}
	})

	t.Run("AdjustProductQuantity on a missing product", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, _, err := repo.AdjustProductQuantity(ctx, uuid.NewString(), -1)
		if err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}

		_, _, err = repo.AdjustProductQuantity(ctx, "not-a-uuid", -1)
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("SetProductAvailability flips the flag", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 0, Available: true})

		if err := repo.SetProductAvailability(ctx, productID, false); err != nil {
			t.Fatalf("set availability: %v", err)
		}

		var available bool
		if err := pool.QueryRow(ctx, `SELECT available FROM products WHERE id = $1`, productID).Scan(&available); err != nil {
			t.Fatalf("query product: %v", err)
		}
		if available {
			t.Fatalf("expected available=false")
		}

		if err := repo.SetProductAvailability(ctx, uuid.NewString(), false); err != domain.ErrProductNotFound {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("ClearCartItems empties the cart but keeps the row", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", []domain.CartItem{
			{ProductID: productID, Quantity: 2},
		})

		if err := repo.ClearCartItems(ctx, "buyer-1"); err != nil {
			t.Fatalf("clear cart: %v", err)
		}

		var items int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&items); err != nil {
			t.Fatalf("query items: %v", err)
		}
		if items != 0 {
			t.Fatalf("expected cart emptied, got %d items", items)
		}

		var carts int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM carts WHERE id = $1`, cartID).Scan(&carts); err != nil {
			t.Fatalf("query carts: %v", err)
		}
		if carts != 1 {
			t.Fatalf("expected cart row to survive")
		}
	})

	t.Run("ClearCartItems without a cart is a no-op", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if err := repo.ClearCartItems(ctx, "nobody"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

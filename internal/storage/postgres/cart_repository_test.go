package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/verdegat/market-api/internal/domain"
	"github.com/verdegat/market-api/internal/testutil"
)

func TestCartRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCartRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetCartByBuyer returns nil for an unknown buyer", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		cart, err := repo.GetCartByBuyer(ctx, "nobody")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cart != nil {
			t.Fatalf("expected nil cart, got %+v", cart)
		}
	})

	t.Run("EnsureCart converges on one row per buyer", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		now := time.Now().UTC()

		first, err := repo.EnsureCart(ctx, domain.Cart{BuyerID: "buyer-1", UpdatedAt: now})
		if err != nil {
			t.Fatalf("first ensure: %v", err)
		}
		second, err := repo.EnsureCart(ctx, domain.Cart{BuyerID: "buyer-1", UpdatedAt: now.Add(time.Minute)})
		if err != nil {
			t.Fatalf("second ensure: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("expected the same cart, got %s and %s", first.ID, second.ID)
		}

		var count int
		if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM carts WHERE buyer_id = $1`, "buyer-1").Scan(&count); err != nil {
			t.Fatalf("query carts: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected one cart row, got %d", count)
		}
	})

	t.Run("AddItem increments an existing line", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", nil)

		if err := repo.AddItem(ctx, cartID, productID, 2); err != nil {
			t.Fatalf("first add: %v", err)
		}
		if err := repo.AddItem(ctx, cartID, productID, 5); err != nil {
			t.Fatalf("second add: %v", err)
		}

		var quantity float64
		err := pool.QueryRow(ctx, `SELECT quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID).Scan(&quantity)
		if err != nil {
			t.Fatalf("query line: %v", err)
		}
		if quantity != 7 {
			t.Fatalf("expected quantity 7, got %v", quantity)
		}
	})

	t.Run("SetItemQuantity overwrites or reports a missing line", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})
		other := testutil.InsertProduct(t, ctx, pool, domain.Product{Name: "Cucumbers", Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", []domain.CartItem{
			{ProductID: productID, Quantity: 2},
		})

		if err := repo.SetItemQuantity(ctx, cartID, productID, 9); err != nil {
			t.Fatalf("set quantity: %v", err)
		}
		var quantity float64
		err := pool.QueryRow(ctx, `SELECT quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID).Scan(&quantity)
		if err != nil {
			t.Fatalf("query line: %v", err)
		}
		if quantity != 9 {
			t.Fatalf("expected quantity 9, got %v", quantity)
		}

		if err := repo.SetItemQuantity(ctx, cartID, other, 1); err != domain.ErrCartItemNotFound {
			t.Fatalf("expected ErrCartItemNotFound, got %v", err)
		}
	})

	t.Run("RemoveItem deletes the line and tolerates absence", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", []domain.CartItem{
			{ProductID: productID, Quantity: 2},
		})

		if err := repo.RemoveItem(ctx, cartID, productID); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if err := repo.RemoveItem(ctx, cartID, productID); err != nil {
			t.Fatalf("second remove should be a no-op, got %v", err)
		}
	})

	t.Run("ResolvedItems joins the catalog in insertion order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		apples := testutil.InsertProduct(t, ctx, pool, domain.Product{Name: "Apples", Price: 3, Quantity: 5, Available: true})
		pears := testutil.InsertProduct(t, ctx, pool, domain.Product{Name: "Pears", Price: 4, Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", nil)

		if err := repo.AddItem(ctx, cartID, apples, 2); err != nil {
			t.Fatalf("add apples: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		if err := repo.AddItem(ctx, cartID, pears, 1); err != nil {
			t.Fatalf("add pears: %v", err)
		}

		items, err := repo.ResolvedItems(ctx, cartID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Product.Name != "Apples" || items[0].Quantity != 2 {
			t.Fatalf("unexpected first item: %+v", items[0])
		}
		if items[1].Product.Name != "Pears" || items[1].Product.Price != 4 {
			t.Fatalf("unexpected second item: %+v", items[1])
		}
	})

	t.Run("ResolvedItems drops lines whose product vanished", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		productID := testutil.InsertProduct(t, ctx, pool, domain.Product{Quantity: 5, Available: true})
		cartID := testutil.InsertCart(t, ctx, pool, "buyer-1", []domain.CartItem{
			{ProductID: productID, Quantity: 2},
		})

		if _, err := pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID); err != nil {
			t.Fatalf("delete product: %v", err)
		}

		items, err := repo.ResolvedItems(ctx, cartID)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected orphaned line hidden, got %+v", items)
		}
	})
}

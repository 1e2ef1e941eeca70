package domain

import "time"

// Cart holds a buyer's pending selections. One cart per buyer; it is
// created lazily on the first add and emptied, never deleted, on checkout.
type Cart struct {
	ID        string
	BuyerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is one product selection inside a cart. A product appears at
// most once per cart; re-adding increments the quantity.
type CartItem struct {
	ProductID string
	Quantity  float64
	AddedAt   time.Time
}

// ResolvedCartItem is a cart item with its live catalog record joined in,
// the shape cart endpoints return.
type ResolvedCartItem struct {
	Product  Product
	Quantity float64
}

package domain

import "time"

// Order is an immutable ledger entry for a placed order. TotalAmount is the
// amount the buyer declared at checkout, not a recomputation.
type Order struct {
	ID          string
	BuyerID     string
	Items       []OrderItem
	TotalAmount float64
	CreatedAt   time.Time
}

// OrderItem snapshots a line at order time. Name and Price are captured from
// the request so later catalog changes never alter historical orders.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  float64
	Price     float64
}

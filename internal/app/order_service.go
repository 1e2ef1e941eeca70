package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/verdegat/market-api/internal/clock"
	"github.com/verdegat/market-api/internal/domain"
	"github.com/verdegat/market-api/internal/metrics"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order domain.Order) error
	// AdjustProductQuantity applies delta atomically at the store and returns
	// the post-adjustment quantity and availability flag.
	AdjustProductQuantity(ctx context.Context, productID string, delta float64) (quantity float64, available bool, err error)
	SetProductAvailability(ctx context.Context, productID string, available bool) error
	ClearCartItems(ctx context.Context, buyerID string) error
}

// OrderService places orders: it persists the ledger entry, reconciles
// catalog inventory per line item, and clears the buyer's cart. The three
// steps span independent stores and are deliberately not atomic; the ledger
// write is the durability point and nothing after it is rolled back.
type OrderService struct {
	repo    OrderRepository
	clock   clock.Clock
	logger  *log.Logger
	metrics *metrics.OrderMetrics
}

func NewOrderService(repo OrderRepository, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		repo:   repo,
		clock:  clk,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithOrderLogger overrides the logger used for placement diagnostics.
func WithOrderLogger(logger *log.Logger) OrderServiceOption {
	return func(s *OrderService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrderMetrics enables placement counters.
func WithOrderMetrics(m *metrics.OrderMetrics) OrderServiceOption {
	return func(s *OrderService) {
		s.metrics = m
	}
}

type PlaceOrderInput struct {
	BuyerID     string
	Items       []OrderItemInput
	TotalAmount float64
}

type OrderItemInput struct {
	ProductID string
	Name      string
	Quantity  float64
	Price     float64
}

// PlaceOrder validates the request, writes the order, then applies the
// per-item inventory decrements and the cart clear in sequence. A failure
// after the ledger write surfaces as an error without undoing earlier steps;
// the order ID in the logs is the key for replaying reconciliation.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if strings.TrimSpace(in.BuyerID) == "" {
		return domain.Order{}, domain.ErrBuyerRequired
	}
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrOrderItemsRequired
	}
	if in.TotalAmount == 0 {
		return domain.Order{}, domain.ErrTotalAmountRequired
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		BuyerID:     in.BuyerID,
		Items:       items,
		TotalAmount: in.TotalAmount,
		CreatedAt:   s.clock.Now(),
	}

	// Durability point: header and line items land together or not at all.
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateOrder(txCtx, order)
	})
	if err != nil {
		s.countFailure()
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := s.reconcileInventory(ctx, order); err != nil {
		s.logger.Printf("ERROR: order %s: inventory reconciliation incomplete: %v", order.ID, err)
		s.countFailure()
		return domain.Order{}, err
	}

	// Unconditional: the whole cart empties on checkout, not just the
	// ordered items, and a missing cart is not an error here.
	if err := s.repo.ClearCartItems(ctx, order.BuyerID); err != nil {
		s.logger.Printf("ERROR: order %s: clear cart for buyer %s: %v", order.ID, order.BuyerID, err)
		s.countFailure()
		return domain.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Placed.Inc()
	}
	return order, nil
}

// reconcileInventory decrements stock per line item in request order. The
// decrement is a single atomic store operation, never a read-modify-write,
// so concurrent orders cannot lose updates. Quantity may go negative:
// oversell is allowed by policy and only flips the availability flag.
func (s *OrderService) reconcileInventory(ctx context.Context, order domain.Order) error {
	for _, item := range order.Items {
		qty, available, err := s.repo.AdjustProductQuantity(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			return fmt.Errorf("adjust product %s: %w", item.ProductID, err)
		}
		if qty > 0 {
			continue
		}
		if qty < 0 && s.metrics != nil {
			s.metrics.Oversells.Inc()
		}
		if !available {
			continue
		}
		if err := s.repo.SetProductAvailability(ctx, item.ProductID, false); err != nil {
			return fmt.Errorf("mark product %s unavailable: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *OrderService) countFailure() {
	if s.metrics != nil {
		s.metrics.Failed.Inc()
	}
}

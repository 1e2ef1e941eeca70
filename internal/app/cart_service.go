package app

import (
	"context"
	"strings"

	"github.com/verdegat/market-api/internal/clock"
	"github.com/verdegat/market-api/internal/domain"
)

type CartRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetCartByBuyer(ctx context.Context, buyerID string) (*domain.Cart, error)
	// EnsureCart creates the buyer's cart if absent and returns it either way.
	EnsureCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	// AddItem inserts the item or increments the existing row's quantity.
	AddItem(ctx context.Context, cartID, productID string, quantity float64) error
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity float64) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	ClearItems(ctx context.Context, cartID string) error
	ResolvedItems(ctx context.Context, cartID string) ([]domain.ResolvedCartItem, error)
}

// CartService mutates a buyer's pending selections. Every mutation returns
// the cart's item list with catalog details joined in. Concurrent writers to
// the same cart are not coordinated; the store's row state is last-write-wins.
type CartService struct {
	repo  CartRepository
	clock clock.Clock
}

func NewCartService(repo CartRepository, clk clock.Clock) *CartService {
	return &CartService{
		repo:  repo,
		clock: clk,
	}
}

// GetItems returns the resolved item list, or an empty list when the buyer
// has no cart yet.
func (s *CartService) GetItems(ctx context.Context, buyerID string) ([]domain.ResolvedCartItem, error) {
	cart, err := s.repo.GetCartByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []domain.ResolvedCartItem{}, nil
	}
	return s.repo.ResolvedItems(ctx, cart.ID)
}

type AddCartItemInput struct {
	BuyerID   string
	ProductID string
	Quantity  float64
}

// AddItem lazily creates the cart, then adds or increments the item. There is
// no stock bound: the catalog is consulted only when the list is resolved.
func (s *CartService) AddItem(ctx context.Context, in AddCartItemInput) ([]domain.ResolvedCartItem, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.ErrProductIDRequired
	}

	var items []domain.ResolvedCartItem
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		cart, err := s.repo.EnsureCart(txCtx, domain.Cart{
			BuyerID:   in.BuyerID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if err := s.repo.AddItem(txCtx, cart.ID, in.ProductID, in.Quantity); err != nil {
			return err
		}
		items, err = s.repo.ResolvedItems(txCtx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

type UpdateCartItemInput struct {
	BuyerID   string
	ProductID string
	Quantity  float64
}

// UpdateItem overwrites an existing item's quantity. Unlike AddItem it never
// creates anything: a missing cart or item is a not-found error.
func (s *CartService) UpdateItem(ctx context.Context, in UpdateCartItemInput) ([]domain.ResolvedCartItem, error) {
	cart, err := s.repo.GetCartByBuyer(ctx, in.BuyerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	if err := s.repo.SetItemQuantity(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	return s.repo.ResolvedItems(ctx, cart.ID)
}

// RemoveItem filters the product out of the cart. Removing an item that is
// not there is not an error; only a missing cart is.
func (s *CartService) RemoveItem(ctx context.Context, buyerID, productID string) ([]domain.ResolvedCartItem, error) {
	cart, err := s.repo.GetCartByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.repo.ResolvedItems(ctx, cart.ID)
}

// Clear empties the cart's item collection. The cart row itself survives.
func (s *CartService) Clear(ctx context.Context, buyerID string) ([]domain.ResolvedCartItem, error) {
	cart, err := s.repo.GetCartByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return []domain.ResolvedCartItem{}, nil
}

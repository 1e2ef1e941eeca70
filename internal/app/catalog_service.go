package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/verdegat/market-api/internal/clock"
	"github.com/verdegat/market-api/internal/domain"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
}

// CatalogService covers the admin-facing product CRUD. The order flow does
// not go through here; it talks to the catalog via atomic adjustments only.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

type CreateProductInput struct {
	Name        string
	Price       float64
	PriceUnit   string
	Category    string
	Description string
	Quantity    float64
}

// CreateProduct creates a product, or reactivates the product with the same
// name: availability comes back on, pricing fields are overwritten, and the
// posted quantity is added to whatever stock was left. The returned bool is
// true when a new product was created.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, bool, error) {
	if in.Name == "" || in.Price == 0 || in.Category == "" {
		return domain.Product{}, false, domain.ErrProductFieldsRequired
	}

	existing, err := s.repo.GetProductByName(ctx, in.Name)
	if err != nil {
		return domain.Product{}, false, err
	}
	if existing != nil {
		existing.Available = true
		existing.Price = in.Price
		existing.PriceUnit = normalizePriceUnit(in.PriceUnit)
		existing.Category = in.Category
		existing.Description = in.Description
		existing.Quantity += in.Quantity
		if err := s.repo.UpdateProduct(ctx, *existing); err != nil {
			return domain.Product{}, false, err
		}
		return *existing, false, nil
	}

	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		PriceUnit:   normalizePriceUnit(in.PriceUnit),
		Category:    in.Category,
		Description: in.Description,
		Quantity:    in.Quantity,
		Available:   true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, false, err
	}
	return product, true, nil
}

type UpdateProductInput struct {
	ID          string
	Name        *string
	Price       *float64
	PriceUnit   *string
	Category    *string
	Description *string
	Quantity    *float64
}

// UpdateProduct overwrites the fields that were provided and leaves the rest.
func (s *CatalogService) UpdateProduct(ctx context.Context, in UpdateProductInput) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, in.ID)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil && *in.Name != "" {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.PriceUnit != nil {
		product.PriceUnit = normalizePriceUnit(*in.PriceUnit)
	}
	if in.Category != nil && *in.Category != "" {
		product.Category = *in.Category
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

type AdjustProductInput struct {
	ID             string
	Available      *bool
	QuantityChange *float64
	PriceUnit      *string
}

// AdjustProduct is the admin restock/flag path. Quantity changes clamp at
// zero (unlike order-time decrements, which may oversell) and hitting zero
// turns availability off.
func (s *CatalogService) AdjustProduct(ctx context.Context, in AdjustProductInput) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, in.ID)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Available != nil {
		product.Available = *in.Available
	}
	if in.QuantityChange != nil {
		product.Quantity += *in.QuantityChange
		if product.Quantity <= 0 {
			product.Quantity = 0
			product.Available = false
		}
	}
	if in.PriceUnit != nil {
		product.PriceUnit = normalizePriceUnit(*in.PriceUnit)
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// DeleteProduct soft-deletes: the row stays for cart and order references,
// it just stops being available.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Available = false
	return s.repo.UpdateProduct(ctx, product)
}

func normalizePriceUnit(unit string) domain.PriceUnit {
	if unit == string(domain.PriceUnitKilogram) {
		return domain.PriceUnitKilogram
	}
	return domain.PriceUnitEach
}

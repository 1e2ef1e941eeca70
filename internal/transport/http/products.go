package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/verdegat/market-api/internal/app"
	"github.com/verdegat/market-api/internal/domain"
)

// CatalogService is the minimal interface the product endpoints need.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, bool, error)
	UpdateProduct(ctx context.Context, in app.UpdateProductInput) (domain.Product, error)
	AdjustProduct(ctx context.Context, in app.AdjustProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// HandleProducts serves the /products collection: list and create-or-reactivate.
func HandleProducts(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			products, err := svc.ListProducts(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]productResponse, 0, len(products))
			for _, p := range products {
				resp = append(resp, toProductResponse(p))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)

		case http.MethodPost:
			var req createProductRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, created, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
				Name:        req.Name,
				Price:       coerceNumber(req.Price),
				PriceUnit:   req.PriceType,
				Category:    req.Category,
				Description: req.Description,
				Quantity:    coerceNumber(req.Quantity),
			})
			if err != nil {
				writeProductError(w, err)
				return
			}
			status := http.StatusOK
			if created {
				status = http.StatusCreated
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleProductByID serves /products/{id}: full update, partial adjust, and
// soft delete.
func HandleProductByID(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseProductPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req updateProductRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, err := svc.UpdateProduct(r.Context(), app.UpdateProductInput{
				ID:          id,
				Name:        req.Name,
				Price:       req.Price,
				PriceUnit:   req.PriceType,
				Category:    req.Category,
				Description: req.Description,
				Quantity:    req.Quantity,
			})
			if err != nil {
				writeProductError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(updateProductResponse{
				Message: "Product updated successfully",
				Product: toProductResponse(product),
			})

		case http.MethodPatch:
			var req adjustProductRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			product, err := svc.AdjustProduct(r.Context(), app.AdjustProductInput{
				ID:             id,
				Available:      req.Available,
				QuantityChange: req.QuantityChange,
				PriceUnit:      req.PriceType,
			})
			if err != nil {
				writeProductError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toProductResponse(product))

		case http.MethodDelete:
			if err := svc.DeleteProduct(r.Context(), id); err != nil {
				writeProductError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Product marked as unavailable"})

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func parseProductPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "products" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeProductError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrProductFieldsRequired:
		writeError(w, http.StatusBadRequest, codeProductFieldsRequired, err.Error())
	case domain.ErrProductNameTaken:
		writeError(w, http.StatusConflict, codeProductNameTaken, err.Error())
	case domain.ErrProductNotFound:
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	PriceType   string          `json:"priceType"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Quantity    json.RawMessage `json:"quantity"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	PriceType   *string  `json:"priceType"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
}

type adjustProductRequest struct {
	Available      *bool    `json:"available"`
	QuantityChange *float64 `json:"quantityChange"`
	PriceType      *string  `json:"priceType"`
}

type updateProductResponse struct {
	Message string          `json:"message"`
	Product productResponse `json:"product"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	PriceType   string    `json:"priceType"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		PriceType:   string(p.PriceUnit),
		Category:    p.Category,
		Description: p.Description,
		Quantity:    p.Quantity,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
}

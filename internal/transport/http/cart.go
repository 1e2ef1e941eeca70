package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/verdegat/market-api/internal/app"
	"github.com/verdegat/market-api/internal/domain"
)

// CartService is the minimal interface the cart endpoints need.
type CartService interface {
	GetItems(ctx context.Context, buyerID string) ([]domain.ResolvedCartItem, error)
	AddItem(ctx context.Context, in app.AddCartItemInput) ([]domain.ResolvedCartItem, error)
	UpdateItem(ctx context.Context, in app.UpdateCartItemInput) ([]domain.ResolvedCartItem, error)
	RemoveItem(ctx context.Context, buyerID, productID string) ([]domain.ResolvedCartItem, error)
	Clear(ctx context.Context, buyerID string) ([]domain.ResolvedCartItem, error)
}

// HandleCart routes /cart/{buyer} and /cart/{buyer}/{product}. Every
// successful response is the buyer's resolved item list, never null.
func HandleCart(svc CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, productID, ok := parseCartPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case r.Method == http.MethodGet && productID == "":
			items, err := svc.GetItems(r.Context(), buyerID)
			if err != nil {
				writeCartError(w, err)
				return
			}
			writeCartItems(w, http.StatusOK, items)

		case r.Method == http.MethodPost && productID == "":
			var req addCartItemRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.ProductID == "" {
				writeError(w, http.StatusBadRequest, codeProductIDRequired, domain.ErrProductIDRequired.Error())
				return
			}
			items, err := svc.AddItem(r.Context(), app.AddCartItemInput{
				BuyerID:   buyerID,
				ProductID: req.ProductID,
				Quantity:  coerceNumber(req.Quantity),
			})
			if err != nil {
				writeCartError(w, err)
				return
			}
			writeCartItems(w, http.StatusOK, items)

		case r.Method == http.MethodPut && productID != "":
			var req updateCartItemRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			items, err := svc.UpdateItem(r.Context(), app.UpdateCartItemInput{
				BuyerID:   buyerID,
				ProductID: productID,
				Quantity:  coerceNumber(req.Quantity),
			})
			if err != nil {
				writeCartError(w, err)
				return
			}
			writeCartItems(w, http.StatusOK, items)

		case r.Method == http.MethodDelete && productID == "clear":
			items, err := svc.Clear(r.Context(), buyerID)
			if err != nil {
				writeCartError(w, err)
				return
			}
			writeCartItems(w, http.StatusOK, items)

		case r.Method == http.MethodDelete && productID != "":
			items, err := svc.RemoveItem(r.Context(), buyerID, productID)
			if err != nil {
				writeCartError(w, err)
				return
			}
			writeCartItems(w, http.StatusOK, items)

		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func parseCartPath(path string) (buyerID, productID string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "cart" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		return parts[1], parts[2], true
	}
	return parts[1], "", true
}

func writeCartError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrCartNotFound:
		writeError(w, http.StatusNotFound, codeCartNotFound, err.Error())
	case domain.ErrCartItemNotFound:
		writeError(w, http.StatusNotFound, codeCartItemNotFound, err.Error())
	case domain.ErrProductIDRequired:
		writeError(w, http.StatusBadRequest, codeProductIDRequired, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeCartItems(w http.ResponseWriter, status int, items []domain.ResolvedCartItem) {
	resp := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, cartItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

type addCartItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  json.RawMessage `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type cartItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity float64         `json:"quantity"`
}

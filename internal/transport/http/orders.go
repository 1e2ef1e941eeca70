package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/verdegat/market-api/internal/app"
	"github.com/verdegat/market-api/internal/domain"
)

// OrderPlacer is the minimal interface needed to place an order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in app.PlaceOrderInput) (domain.Order, error)
}

// HandleOrders returns an HTTP handler for order placement. The declared
// totalAmount is passed through untouched; the server does not recompute it
// from catalog prices.
func HandleOrders(svc OrderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if code, err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, code, err.Error())
			return
		}

		items := make([]app.OrderItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, app.OrderItemInput{
				ProductID: it.Product,
				Name:      it.Name,
				Quantity:  coerceNumber(it.Quantity),
				Price:     coerceNumber(it.Price),
			})
		}

		order, err := svc.PlaceOrder(r.Context(), app.PlaceOrderInput{
			BuyerID:     req.Buyer,
			Items:       items,
			TotalAmount: coerceNumber(req.TotalAmount),
		})
		if err != nil {
			switch err {
			case domain.ErrBuyerRequired:
				writeError(w, http.StatusBadRequest, codeBuyerRequired, err.Error())
			case domain.ErrOrderItemsRequired:
				writeError(w, http.StatusBadRequest, codeOrderItemsRequired, err.Error())
			case domain.ErrTotalAmountRequired:
				writeError(w, http.StatusBadRequest, codeTotalAmountRequired, err.Error())
			default:
				// Includes mid-reconciliation failures: the order may already
				// be durable even though the caller sees an error.
				writeErrorDetail(w, http.StatusInternalServerError, codeInternalError, "server error", err.Error())
			}
			return
		}

		resp := placeOrderResponse{
			Message: "Order placed successfully",
			Order:   toOrderResponse(order),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type placeOrderRequest struct {
	Buyer       string             `json:"buyer"`
	Items       []orderItemRequest `json:"items"`
	TotalAmount json.RawMessage    `json:"totalAmount"`
}

type orderItemRequest struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
	Price    json.RawMessage `json:"price"`
}

func (r placeOrderRequest) validate() (string, error) {
	if r.Buyer == "" {
		return codeBuyerRequired, domain.ErrBuyerRequired
	}
	if len(r.Items) == 0 {
		return codeOrderItemsRequired, domain.ErrOrderItemsRequired
	}
	if coerceNumber(r.TotalAmount) == 0 {
		return codeTotalAmountRequired, domain.ErrTotalAmountRequired
	}
	return "", nil
}

type placeOrderResponse struct {
	Message string        `json:"message"`
	Order   orderResponse `json:"order"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	Buyer       string              `json:"buyer"`
	Items       []orderItemResponse `json:"items"`
	TotalAmount float64             `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type orderItemResponse struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, orderItemResponse{
			Product:  it.ProductID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return orderResponse{
		ID:          order.ID,
		Buyer:       order.BuyerID,
		Items:       items,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}
}

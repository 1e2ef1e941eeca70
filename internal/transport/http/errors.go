package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed      = "method_not_allowed"
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeBuyerRequired         = "buyer_required"
	codeOrderItemsRequired    = "order_items_required"
	codeTotalAmountRequired   = "total_amount_required"
	codeProductFieldsRequired = "product_fields_required"
	codeProductNameTaken      = "product_name_taken"
	codeProductNotFound       = "product_not_found"
	codeProductIDRequired     = "product_id_required"
	codeCartNotFound          = "cart_not_found"
	codeCartItemNotFound      = "cart_item_not_found"
	codeInvalidID             = "invalid_id"
	codeForbidden             = "forbidden"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorDetail(w, status, code, msg, "")
}

// writeErrorDetail carries the underlying error text for 500s, matching the
// {message, error} envelope order placement promises its callers.
func writeErrorDetail(w http.ResponseWriter, status int, code, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Message: msg,
		Code:    code,
		Error:   detail,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"message":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

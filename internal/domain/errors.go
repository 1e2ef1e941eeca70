package domain

import "errors"

var (
	ErrBuyerRequired         = errors.New("buyer is required")
	ErrOrderItemsRequired    = errors.New("order items are required")
	ErrTotalAmountRequired   = errors.New("total amount is required")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductFieldsRequired = errors.New("name, price, and category are required")
	ErrProductNameTaken      = errors.New("product name already exists")
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrProductIDRequired     = errors.New("product id is required")
	ErrInvalidID             = errors.New("invalid id")
)

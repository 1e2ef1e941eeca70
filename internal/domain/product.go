package domain

import "time"

type PriceUnit string

const (
	PriceUnitEach     PriceUnit = "unit"
	PriceUnitKilogram PriceUnit = "kg"
)

// Product is a catalog entry. Quantity is a float because weight-priced
// goods (PriceUnitKilogram) are sold in fractional amounts.
type Product struct {
	ID          string
	Name        string
	Price       float64
	PriceUnit   PriceUnit
	Category    string
	Description string
	Quantity    float64
	Available   bool
	CreatedAt   time.Time
}

package domain

// SalesBucket aggregates order line items for one period label
// (a month name or a YYYY-MM-DD date).
type SalesBucket struct {
	Label   string
	Sales   float64
	Revenue float64
}

// SalesSummary is the admin analytics rollup.
type SalesSummary struct {
	TotalProducts int
	TotalSales    float64
	TotalRevenue  float64
	Buckets       []SalesBucket
}

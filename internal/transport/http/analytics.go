package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/verdegat/market-api/internal/domain"
)

// AnalyticsService is the minimal interface the analytics endpoints need.
type AnalyticsService interface {
	MonthlySummary(ctx context.Context) (domain.SalesSummary, error)
	DailySummary(ctx context.Context) (domain.SalesSummary, error)
}

// HandleAnalytics serves /analytics (monthly buckets) and /analytics/daily.
func HandleAnalytics(svc AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch r.URL.Path {
		case "/analytics", "/analytics/":
			summary, err := svc.MonthlySummary(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			writeSummary(w, summary, "monthlySalesArray", func(b domain.SalesBucket) any {
				return monthlyBucketResponse{Month: b.Label, Sales: b.Sales, Revenue: b.Revenue}
			})
		case "/analytics/daily":
			summary, err := svc.DailySummary(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			writeSummary(w, summary, "dailySalesArray", func(b domain.SalesBucket) any {
				return dailyBucketResponse{Date: b.Label, Sales: b.Sales, Revenue: b.Revenue}
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func writeSummary(w http.ResponseWriter, summary domain.SalesSummary, bucketKey string, toBucket func(domain.SalesBucket) any) {
	buckets := make([]any, 0, len(summary.Buckets))
	for _, b := range summary.Buckets {
		buckets = append(buckets, toBucket(b))
	}
	resp := map[string]any{
		"totalProducts": summary.TotalProducts,
		"totalSales":    summary.TotalSales,
		"totalRevenue":  summary.TotalRevenue,
		bucketKey:       buckets,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type monthlyBucketResponse struct {
	Month   string  `json:"month"`
	Sales   float64 `json:"sales"`
	Revenue float64 `json:"revenue"`
}

type dailyBucketResponse struct {
	Date    string  `json:"date"`
	Sales   float64 `json:"sales"`
	Revenue float64 `json:"revenue"`
}

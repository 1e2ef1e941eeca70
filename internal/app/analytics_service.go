package app

import (
	"context"

	"github.com/verdegat/market-api/internal/domain"
)

type AnalyticsRepository interface {
	CountProducts(ctx context.Context) (int, error)
	SalesByMonth(ctx context.Context) ([]domain.SalesBucket, error)
	SalesByDay(ctx context.Context) ([]domain.SalesBucket, error)
}

// AnalyticsService rolls order line items up into sales totals. Read-only;
// revenue is quantity x captured price, so it reflects what buyers declared
// at order time, not current catalog prices.
type AnalyticsService struct {
	repo AnalyticsRepository
}

func NewAnalyticsService(repo AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

func (s *AnalyticsService) MonthlySummary(ctx context.Context) (domain.SalesSummary, error) {
	buckets, err := s.repo.SalesByMonth(ctx)
	if err != nil {
		return domain.SalesSummary{}, err
	}
	return s.summarize(ctx, buckets)
}

func (s *AnalyticsService) DailySummary(ctx context.Context) (domain.SalesSummary, error) {
	buckets, err := s.repo.SalesByDay(ctx)
	if err != nil {
		return domain.SalesSummary{}, err
	}
	return s.summarize(ctx, buckets)
}

func (s *AnalyticsService) summarize(ctx context.Context, buckets []domain.SalesBucket) (domain.SalesSummary, error) {
	total, err := s.repo.CountProducts(ctx)
	if err != nil {
		return domain.SalesSummary{}, err
	}

	summary := domain.SalesSummary{
		TotalProducts: total,
		Buckets:       buckets,
	}
	for _, b := range buckets {
		summary.TotalSales += b.Sales
		summary.TotalRevenue += b.Revenue
	}
	return summary, nil
}

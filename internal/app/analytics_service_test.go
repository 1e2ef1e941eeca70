package app

import (
	"context"
	"errors"
	"testing"

	"github.com/verdegat/market-api/internal/domain"
)

func TestAnalyticsService_MonthlySummary(t *testing.T) {
	t.Parallel()

	t.Run("sums bucket totals", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{
			productCount: 12,
			monthly: []domain.SalesBucket{
				{Label: "Jan", Sales: 3, Revenue: 30},
				{Label: "Feb", Sales: 2, Revenue: 45.5},
			},
		}
		svc := NewAnalyticsService(repo)

		summary, err := svc.MonthlySummary(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if summary.TotalProducts != 12 {
			t.Fatalf("expected 12 products, got %d", summary.TotalProducts)
		}
		if summary.TotalSales != 5 {
			t.Fatalf("expected 5 sales, got %v", summary.TotalSales)
		}
		if summary.TotalRevenue != 75.5 {
			t.Fatalf("expected revenue 75.5, got %v", summary.TotalRevenue)
		}
		if len(summary.Buckets) != 2 || summary.Buckets[0].Label != "Jan" {
			t.Fatalf("expected buckets passed through in order, got %+v", summary.Buckets)
		}
	})

	t.Run("no sales yields zero totals", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{productCount: 3}
		svc := NewAnalyticsService(repo)

		summary, err := svc.MonthlySummary(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if summary.TotalProducts != 3 || summary.TotalSales != 0 || summary.TotalRevenue != 0 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{err: errors.New("db down")}
		svc := NewAnalyticsService(repo)

		if _, err := svc.MonthlySummary(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestAnalyticsService_DailySummary(t *testing.T) {
	t.Parallel()

	repo := &fakeAnalyticsRepo{
		productCount: 7,
		daily: []domain.SalesBucket{
			{Label: "2025-03-03", Sales: 1, Revenue: 10},
			{Label: "2025-03-04", Sales: 4, Revenue: 12},
		},
	}
	svc := NewAnalyticsService(repo)

	summary, err := svc.DailySummary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.TotalSales != 5 || summary.TotalRevenue != 22 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.Buckets) != 2 || summary.Buckets[1].Label != "2025-03-04" {
		t.Fatalf("expected daily buckets, got %+v", summary.Buckets)
	}
}

type fakeAnalyticsRepo struct {
	productCount int
	monthly      []domain.SalesBucket
	daily        []domain.SalesBucket
	err          error
}

func (f *fakeAnalyticsRepo) CountProducts(_ context.Context) (int, error) {
	return f.productCount, f.err
}

func (f *fakeAnalyticsRepo) SalesByMonth(_ context.Context) ([]domain.SalesBucket, error) {
	return f.monthly, f.err
}

func (f *fakeAnalyticsRepo) SalesByDay(_ context.Context) ([]domain.SalesBucket, error) {
	return f.daily, f.err
}

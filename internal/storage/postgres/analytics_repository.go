package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verdegat/market-api/internal/domain"
)

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// SalesByMonth buckets order items under a month label ('Jan', 'Feb', ...).
// Same-month orders from different years share a bucket, which is what the
// dashboard expects; buckets come back in first-order-seen order.
func (r *AnalyticsRepository) SalesByMonth(ctx context.Context) ([]domain.SalesBucket, error) {
	const query = `
SELECT TRIM(TO_CHAR(o.created_at, 'Mon')) AS label,
       COALESCE(SUM(oi.quantity), 0),
       COALESCE(SUM(oi.quantity * oi.price), 0)
FROM orders o
JOIN order_items oi ON oi.order_id = o.id
GROUP BY label
ORDER BY MIN(o.created_at) ASC`

	return r.queryBuckets(ctx, query)
}

// SalesByDay buckets order items by calendar date (YYYY-MM-DD).
func (r *AnalyticsRepository) SalesByDay(ctx context.Context) ([]domain.SalesBucket, error) {
	const query = `
SELECT TO_CHAR(o.created_at, 'YYYY-MM-DD') AS label,
       COALESCE(SUM(oi.quantity), 0),
       COALESCE(SUM(oi.quantity * oi.price), 0)
FROM orders o
JOIN order_items oi ON oi.order_id = o.id
GROUP BY label
ORDER BY label ASC`

	return r.queryBuckets(ctx, query)
}

func (r *AnalyticsRepository) queryBuckets(ctx context.Context, query string) ([]domain.SalesBucket, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sales buckets: %w", err)
	}
	defer rows.Close()

	var buckets []domain.SalesBucket
	for rows.Next() {
		var b domain.SalesBucket
		if err := rows.Scan(&b.Label, &b.Sales, &b.Revenue); err != nil {
			return nil, fmt.Errorf("scan sales bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sales buckets: %w", rows.Err())
	}
	return buckets, nil
}

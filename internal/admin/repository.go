// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
)

// StatsRepository holds the dashboard aggregates. Each method is a single
// query so they can run concurrently on separate pool connections.
type StatsRepository interface {
	CountClients(ctx context.Context) (int64, error)
	CountActiveSoftware(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

type statsRepository struct {
	db core.DBTX
}

func NewStatsRepository(db core.DBTX) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(DISTINCT user_id) FROM orders`)
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

func (r *statsRepository) CountActiveSoftware(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM software WHERE is_active = TRUE`)
	if err != nil {
		return 0, fmt.Errorf("count software: %w", err)
	}
	return n, nil
}

func (r *statsRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *statsRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1`

	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, query, order.StatusCompleted); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

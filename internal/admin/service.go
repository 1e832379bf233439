// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
)

const recentOrdersLimit = 5

type RecentOrderLister interface {
	ListRecent(ctx context.Context, limit int) ([]order.Order, error)
}

type Service struct {
	stats  StatsRepository
	orders RecentOrderLister
}

func NewService(stats StatsRepository, orders RecentOrderLister) *Service {
	return &Service{
		stats:  stats,
		orders: orders,
	}
}

// Stats runs the dashboard queries concurrently. The first failure cancels
// the rest.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	g, ctx := errgroup.WithContext(ctx)

	var resp StatsResponse
	var recent []order.Order

	g.Go(func() error {
		n, err := s.stats.CountClients(ctx)
		resp.ClientCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.stats.CountActiveSoftware(ctx)
		resp.SoftwareCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.stats.CountOrders(ctx)
		resp.OrderCount = n
		return err
	})
	g.Go(func() error {
		total, err := s.stats.Revenue(ctx)
		resp.Revenue = total.StringFixed(2)
		return err
	})
	g.Go(func() error {
		items, err := s.orders.ListRecent(ctx, recentOrdersLimit)
		recent = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	resp.RecentOrders = order.ToOrderResponseList(recent)
	return &resp, nil
}

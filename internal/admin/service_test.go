// AngelaMos | 2026
// service_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
)

type stubStats struct {
	clients, software, orders int64
	revenue                   decimal.Decimal
	err                       error
}

func (s stubStats) CountClients(context.Context) (int64, error)        { return s.clients, nil }
func (s stubStats) CountActiveSoftware(context.Context) (int64, error) { return s.software, nil }
func (s stubStats) CountOrders(context.Context) (int64, error)         { return s.orders, s.err }
func (s stubStats) Revenue(context.Context) (decimal.Decimal, error)   { return s.revenue, nil }

type stubRecent struct {
	orders    []order.Order
	lastLimit int
}

func (s *stubRecent) ListRecent(_ context.Context, limit int) ([]order.Order, error) {
	s.lastLimit = limit
	if limit < len(s.orders) {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}

func recentFixture(n int) []order.Order {
	now := time.Now()
	out := make([]order.Order, 0, n)
	for i := range n {
		out = append(out, order.Order{
			ID:          int64(n - i),
			UserID:      "user-1",
			SoftwareID:  1,
			Status:      order.StatusCompleted,
			TotalAmount: decimal.NewFromInt(100),
			CreatedAt:   now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestStats(t *testing.T) {
	recent := &stubRecent{orders: recentFixture(8)}
	svc := NewService(stubStats{
		clients:  3,
		software: 6,
		orders:   8,
		revenue:  decimal.RequireFromString("1234"),
	}, recent)

	resp, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.ClientCount)
	assert.Equal(t, int64(6), resp.SoftwareCount)
	assert.Equal(t, int64(8), resp.OrderCount)
	assert.Equal(t, "1234.00", resp.Revenue)
	assert.Equal(t, recentOrdersLimit, recent.lastLimit)
	require.Len(t, resp.RecentOrders, recentOrdersLimit)
	assert.Equal(t, int64(8), resp.RecentOrders[0].ID)
	assert.Equal(t, "100.00", resp.RecentOrders[0].TotalAmount)
}

func TestStats_EmptyStore(t *testing.T) {
	resp, err := NewService(stubStats{}, &stubRecent{}).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.00", resp.Revenue)
	assert.NotNil(t, resp.RecentOrders)
	assert.Empty(t, resp.RecentOrders)
}

func TestStats_PropagatesFailure(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := NewService(stubStats{err: boom}, &stubRecent{}).Stats(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestHandler_DashboardStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Service: NewService(stubStats{orders: 2, revenue: decimal.NewFromInt(50)}, &stubRecent{orders: recentFixture(2)}),
	})
	r := chi.NewRouter()
	h.RegisterStaffRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "50.00", body["revenue"])
	assert.Len(t, body["recentOrders"], 2)
}

func TestHandler_DashboardStatsFailure(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Service: NewService(stubStats{err: errors.New("down")}, &stubRecent{}),
	})
	r := chi.NewRouter()
	h.RegisterStaffRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "down")
}

func TestHandler_SystemStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Backends: []Backend{
			{
				Name: "database",
				Ping: func(context.Context) error { return nil },
				Pool: func() any { return DBPoolStats{OpenConnections: 4, InUse: 1} },
			},
			{
				Name: "redis",
				Ping: func(context.Context) error { return errors.New("dial tcp: no route to host") },
			},
		},
	})
	r := chi.NewRouter()
	h.RegisterAdminRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "no route")

	var body struct {
		Backends []struct {
			Name    string         `json:"name"`
			Healthy bool           `json:"healthy"`
			Pool    map[string]any `json:"pool"`
		} `json:"backends"`
		Runtime RuntimeStats `json:"runtime"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Backends, 2)

	assert.Equal(t, "database", body.Backends[0].Name)
	assert.True(t, body.Backends[0].Healthy)
	assert.EqualValues(t, 4, body.Backends[0].Pool["openConnections"])

	assert.Equal(t, "redis", body.Backends[1].Name)
	assert.False(t, body.Backends[1].Healthy)
	assert.Nil(t, body.Backends[1].Pool)

	assert.NotEmpty(t, body.Runtime.GoVersion)
}

func TestHandler_Backend(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Backends: []Backend{{Name: "redis", Ping: func(context.Context) error { return nil }}},
	})
	r := chi.NewRouter()
	h.RegisterAdminRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/backends/redis", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status BackendStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Healthy)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system/backends/kafka", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

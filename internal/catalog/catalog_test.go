// AngelaMos | 2026
// catalog_test.go

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

type memRepository struct {
	items   []Software
	creates int
	failOn  int
}

func (m *memRepository) Create(_ context.Context, s *Software) error {
	m.creates++
	if m.failOn > 0 && m.creates == m.failOn {
		return errors.New("insert failed")
	}
	s.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *s)
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*Software, error) {
	if id < 1 || int(id) > len(m.items) {
		return nil, fmt.Errorf("get software: %w", core.ErrNotFound)
	}
	s := m.items[id-1]
	return &s, nil
}

func (m *memRepository) ListActive(context.Context) ([]Software, error) {
	out := []Software{}
	for _, s := range m.items {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepository) Update(_ context.Context, s *Software) error {
	m.items[s.ID-1] = *s
	return nil
}

func (m *memRepository) Count(context.Context) (int, error) {
	return len(m.items), nil
}

func TestSeed(t *testing.T) {
	repo := &memRepository{}
	svc := NewService(repo)

	n, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(defaultCatalog), n)
	require.Len(t, repo.items, len(defaultCatalog))

	for _, s := range repo.items {
		assert.True(t, s.IsActive)
		assert.True(t, s.Price.IsPositive())
		assert.NotEmpty(t, s.Features)
	}

	n, err = svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, repo.items, len(defaultCatalog))
}

func TestSeed_StopsOnError(t *testing.T) {
	repo := &memRepository{failOn: 2}

	_, err := NewService(repo).Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), defaultCatalog[1].name)
}

func TestSoftwareResponse_Price(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{price: "299", want: "299.00"},
		{price: "899.99", want: "899.99"},
		{price: "0.5", want: "0.50"},
		{price: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			resp := ToSoftwareResponse(&Software{Price: decimal.RequireFromString(tt.price)})
			assert.Equal(t, tt.want, resp.Price)
			assert.NotNil(t, resp.Features)
		})
	}
}

func adminRouter(repo *memRepository, allow bool) http.Handler {
	gate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow {
				core.JSONError(w, core.ForbiddenError("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, passthrough, gate)
	return r
}

func TestHandler_PublicList(t *testing.T) {
	repo := &memRepository{}
	_, err := NewService(repo).Seed(context.Background())
	require.NoError(t, err)
	repo.items[0].IsActive = false

	rec := httptest.NewRecorder()
	adminRouter(repo, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/software", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []SoftwareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, len(defaultCatalog)-1)
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		allow      bool
		body       string
		wantStatus int
		wantPrice  string
	}{
		{
			name:       "admin creates",
			allow:      true,
			body:       `{"name":"Scheduler","price":"299","features":["Calendar"]}`,
			wantStatus: http.StatusCreated,
			wantPrice:  "299.00",
		},
		{
			name:       "price rounded to cents",
			allow:      true,
			body:       `{"name":"Scheduler","price":19.999}`,
			wantStatus: http.StatusCreated,
			wantPrice:  "20.00",
		},
		{
			name:       "negative price",
			allow:      true,
			body:       `{"name":"Scheduler","price":"-1"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "largest price the column holds",
			allow:      true,
			body:       `{"name":"Scheduler","price":"99999999.99"}`,
			wantStatus: http.StatusCreated,
			wantPrice:  "99999999.99",
		},
		{
			name:       "price past the column",
			allow:      true,
			body:       `{"name":"Scheduler","price":"100000000"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			allow:      true,
			body:       `{"price":"10"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an admin",
			body:       `{"name":"Scheduler","price":"299"}`,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepository{}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/software", strings.NewReader(tt.body))
			adminRouter(repo, tt.allow).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusCreated {
				assert.Empty(t, repo.items)
				return
			}

			var body SoftwareResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantPrice, body.Price)
			assert.True(t, body.IsActive)
		})
	}
}

func TestHandler_Update(t *testing.T) {
	repo := &memRepository{}
	_, err := NewService(repo).Seed(context.Background())
	require.NoError(t, err)
	router := adminRouter(repo, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/software/1",
		strings.NewReader(`{"price":"100","isActive":false}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "100.00", repo.items[0].Price.StringFixed(2))
	assert.False(t, repo.items[0].IsActive)
	assert.Equal(t, defaultCatalog[0].name, repo.items[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/software/1",
		strings.NewReader(`{"price":"123456789"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "100.00", repo.items[0].Price.StringFixed(2))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/software/99",
		strings.NewReader(`{"price":"100"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CreateThenGet(t *testing.T) {
	desc := "Bookings and reminders"
	image := "https://cdn.example.com/scheduler.png"

	tests := []struct {
		name string
		body string
		want SoftwareResponse
	}{
		{
			name: "all fields",
			body: `{"name":"Scheduler","description":"Bookings and reminders",` +
				`"price":"299","imageUrl":"https://cdn.example.com/scheduler.png",` +
				`"features":["Calendar","SMS"]}`,
			want: SoftwareResponse{
				Name:        "Scheduler",
				Description: &desc,
				Price:       "299.00",
				ImageURL:    &image,
				Features:    []string{"Calendar", "SMS"},
				IsActive:    true,
			},
		},
		{
			name: "minimal and inactive",
			body: `{"name":"Ledger","price":"49.5","isActive":false}`,
			want: SoftwareResponse{
				Name:     "Ledger",
				Price:    "49.50",
				Features: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := adminRouter(&memRepository{}, true)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/software",
				strings.NewReader(tt.body)))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var created SoftwareResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
			require.Positive(t, created.ID)

			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
				fmt.Sprintf("/software/%d", created.ID), nil))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got SoftwareResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Description, got.Description)
			assert.Equal(t, tt.want.Price, got.Price)
			assert.Equal(t, tt.want.ImageURL, got.ImageURL)
			assert.Equal(t, tt.want.Features, got.Features)
			assert.Equal(t, tt.want.IsActive, got.IsActive)
			assert.Equal(t, created, got)
		})
	}
}

func TestHandler_GetMissing(t *testing.T) {
	repo := &memRepository{}
	_, err := NewService(repo).Seed(context.Background())
	require.NoError(t, err)
	router := adminRouter(repo, false)

	for _, path := range []string{"/software/999", "/software/0", "/software/abc", "/software/-3"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		})
	}
}

// AngelaMos | 2026
// handler_test.go

package prototype

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

type memRepository struct {
	items map[int64]Prototype
	next  int64
}

func newMemRepository() *memRepository {
	return &memRepository{items: map[int64]Prototype{}}
}

func (m *memRepository) Create(_ context.Context, p *Prototype) error {
	m.next++
	p.ID = m.next
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = *p
	return nil
}

func (m *memRepository) GetOwned(_ context.Context, id int64, userID string) (*Prototype, error) {
	p, ok := m.items[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("get prototype: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (m *memRepository) UpdateOwned(_ context.Context, p *Prototype) error {
	existing, ok := m.items[p.ID]
	if !ok || existing.UserID != p.UserID {
		return fmt.Errorf("update prototype: %w", core.ErrNotFound)
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memRepository) ListByUser(_ context.Context, userID string) ([]Prototype, error) {
	out := []Prototype{}
	for _, p := range m.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepository) ListAll(context.Context) ([]Prototype, error) {
	out := []Prototype{}
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepository) UpdateStatus(_ context.Context, id int64, status string) (*Prototype, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("update prototype status: %w", core.ErrNotFound)
	}
	p.Status = status
	m.items[id] = p
	return &p, nil
}

// asUser stands in for the session authenticator.
func asUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != "" {
				r = r.WithContext(middleware.WithIdentity(r.Context(), &middleware.Identity{UserID: userID}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func serve(repo *memRepository, userID, method, path, body string) *httptest.ResponseRecorder {
	h := NewHandler(NewService(repo))
	r := chi.NewRouter()
	h.RegisterRoutes(r, asUser(userID))
	r.Route("/admin", h.RegisterAdminRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreate(t *testing.T) {
	repo := newMemRepository()

	rec := serve(repo, "alice", http.MethodPost, "/prototypes", `{
		"name": "Dashboard",
		"components": [
			{"id": "c1", "type": "table", "label": "Orders", "x": 10, "y": 20},
			{"id": "c2", "type": "button", "label": "Export", "x": 10, "y": 200}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body PrototypeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.UserID)
	assert.Equal(t, StatusDraft, body.Status)
	require.Len(t, body.Components, 2)
	assert.Equal(t, "c1", body.Components[0].ID)
	assert.Equal(t, "c2", body.Components[1].ID)
}

func TestCreate_RejectsUnknownComponentType(t *testing.T) {
	rec := serve(newMemRepository(), "alice", http.MethodPost, "/prototypes", `{
		"name": "Dashboard",
		"components": [{"id": "c1", "type": "slider", "x": 0, "y": 0}]
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnerOnlyAccess(t *testing.T) {
	repo := newMemRepository()
	require.NoError(t, repo.Create(context.Background(), &Prototype{
		UserID: "alice",
		Name:   "Mine",
		Status: StatusDraft,
	}))

	tests := []struct {
		name       string
		userID     string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "owner reads", userID: "alice", method: http.MethodGet, path: "/prototypes/1", wantStatus: http.StatusOK},
		{name: "stranger reads", userID: "bob", method: http.MethodGet, path: "/prototypes/1", wantStatus: http.StatusNotFound},
		{name: "missing record", userID: "alice", method: http.MethodGet, path: "/prototypes/99", wantStatus: http.StatusNotFound},
		{name: "stranger updates", userID: "bob", method: http.MethodPut, path: "/prototypes/1", body: `{"name":"Hijacked"}`, wantStatus: http.StatusNotFound},
		{name: "owner updates", userID: "alice", method: http.MethodPut, path: "/prototypes/1", body: `{"name":"Renamed","status":"submitted"}`, wantStatus: http.StatusOK},
		{name: "owner cannot approve", userID: "alice", method: http.MethodPut, path: "/prototypes/1", body: `{"status":"approved"}`, wantStatus: http.StatusBadRequest},
		{name: "anonymous", method: http.MethodGet, path: "/prototypes/1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(repo, tt.userID, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, "Renamed", repo.items[1].Name)
	assert.Equal(t, StatusSubmitted, repo.items[1].Status)
}

func TestStrangerAndMissingLookIdentical(t *testing.T) {
	repo := newMemRepository()
	require.NoError(t, repo.Create(context.Background(), &Prototype{UserID: "alice", Name: "Mine"}))

	stranger := serve(repo, "bob", http.MethodPut, "/prototypes/1", `{"name":"x"}`)
	missing := serve(repo, "bob", http.MethodPut, "/prototypes/2", `{"name":"x"}`)

	assert.Equal(t, missing.Code, stranger.Code)
	assert.JSONEq(t, missing.Body.String(), stranger.Body.String())
}

func TestAdminUpdateStatus(t *testing.T) {
	repo := newMemRepository()
	require.NoError(t, repo.Create(context.Background(), &Prototype{UserID: "alice", Name: "Mine", Status: StatusSubmitted}))

	rec := serve(repo, "staff-1", http.MethodPut, "/admin/prototypes/1/status", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusApproved, repo.items[1].Status)

	rec = serve(repo, "staff-1", http.MethodPut, "/admin/prototypes/1/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComponentsScan(t *testing.T) {
	var c Components
	require.NoError(t, c.Scan([]byte(`[{"id":"a","type":"chart","label":"","x":1.5,"y":2}]`)))
	require.Len(t, c, 1)
	assert.Equal(t, 1.5, c[0].X)

	require.NoError(t, c.Scan(nil))
	assert.NotNil(t, c)
	assert.Empty(t, c)

	v, err := Components(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

// AngelaMos | 2026
// routes_test.go

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/JJ-P1114/jj-p1114-studio/internal/admin"
	"github.com/JJ-P1114/jj-p1114-studio/internal/auth"
	"github.com/JJ-P1114/jj-p1114-studio/internal/catalog"
	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/inquiry"
	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
	"github.com/JJ-P1114/jj-p1114-studio/internal/prototype"
	"github.com/JJ-P1114/jj-p1114-studio/internal/user"
)

const testCookie = "studio.sid"

// bearerSessions treats the bearer token as the user id.
type bearerSessions struct{}

func (bearerSessions) Authenticate(_ context.Context, cred middleware.Credential) (*middleware.Identity, error) {
	if cred.Bearer == "" {
		return nil, core.ErrUnauthorized
	}
	return &middleware.Identity{UserID: cred.Bearer, SessionKey: "session-" + cred.Bearer}, nil
}

type roleTable map[string]string

func (t roleTable) GetRole(_ context.Context, userID string) (string, error) {
	role, ok := t[userID]
	if !ok {
		return "", core.ErrNotFound
	}
	return role, nil
}

// newAPIRouter mounts the real route tree over handlers without services.
// A request that clears the guards panics in the handler and comes back as
// a 500 from the recoverer.
func newAPIRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer(slog.New(slog.NewTextHandler(io.Discard, nil))))

	passthrough := func(next http.Handler) http.Handler { return next }
	roles := roleTable{
		"client-1": user.RoleClient,
		"staff-1":  user.RoleStaff,
		"admin-1":  user.RoleAdmin,
	}

	mountAPI(router, apiHandlers{
		Auth:       auth.NewHandler(nil, config.SessionConfig{CookieName: testCookie}),
		Catalog:    catalog.NewHandler(nil),
		Orders:     order.NewHandler(nil),
		Licenses:   license.NewHandler(nil),
		Inquiries:  inquiry.NewHandler(nil),
		Prototypes: prototype.NewHandler(nil),
		Users:      user.NewHandler(nil),
		Admin:      admin.NewHandler(admin.HandlerConfig{}),
	}, newGuards(bearerSessions{}, roles, testCookie, passthrough))

	return router
}

type route struct {
	method string
	path   string
}

var (
	sessionRoutes = []route{
		{http.MethodPost, "/api/auth/token"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/licenses"},
		{http.MethodGet, "/api/inquiries"},
		{http.MethodPost, "/api/prototypes"},
		{http.MethodGet, "/api/prototypes"},
		{http.MethodGet, "/api/prototypes/1"},
		{http.MethodPut, "/api/prototypes/1"},
	}

	staffRoutes = []route{
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodGet, "/api/admin/inquiries"},
		{http.MethodPut, "/api/admin/inquiries/1/status"},
		{http.MethodGet, "/api/admin/prototypes"},
		{http.MethodPut, "/api/admin/prototypes/1/status"},
		{http.MethodGet, "/api/admin/stats"},
	}

	adminRoutes = []route{
		{http.MethodPost, "/api/software"},
		{http.MethodPut, "/api/software/1"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/users/someone"},
		{http.MethodPut, "/api/admin/users/someone/role"},
		{http.MethodGet, "/api/admin/system"},
		{http.MethodGet, "/api/admin/system/runtime"},
		{http.MethodGet, "/api/admin/system/backends/database"},
	}

	publicRoutes = []route{
		{http.MethodGet, "/api/software"},
		{http.MethodGet, "/api/software/1"},
		{http.MethodGet, "/api/licenses/verify/ABCD-EFGH"},
		{http.MethodPost, "/api/inquiries"},
	}
)

func serve(h http.Handler, rt route, bearer string) int {
	req := httptest.NewRequest(rt.method, rt.path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAPIRoutes_Guards(t *testing.T) {
	h := newAPIRouter()

	denied := func(code int) bool {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}

	tests := []struct {
		name   string
		bearer string
		routes []route
		want   int
	}{
		{"anonymous on session routes", "", sessionRoutes, http.StatusUnauthorized},
		{"anonymous on staff routes", "", staffRoutes, http.StatusUnauthorized},
		{"anonymous on admin routes", "", adminRoutes, http.StatusUnauthorized},
		{"unknown user on staff routes", "ghost", staffRoutes, http.StatusForbidden},
		{"client on staff routes", "client-1", staffRoutes, http.StatusForbidden},
		{"client on admin routes", "client-1", adminRoutes, http.StatusForbidden},
		{"staff on admin routes", "staff-1", adminRoutes, http.StatusForbidden},
		{"client on session routes", "client-1", sessionRoutes, 0},
		{"staff on staff routes", "staff-1", staffRoutes, 0},
		{"admin on staff routes", "admin-1", staffRoutes, 0},
		{"admin on admin routes", "admin-1", adminRoutes, 0},
		{"anonymous on public routes", "", publicRoutes, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, rt := range tt.routes {
				code := serve(h, rt, tt.bearer)
				if tt.want == 0 {
					assert.False(t, denied(code), "%s %s returned %d", rt.method, rt.path, code)
					continue
				}
				assert.Equal(t, tt.want, code, "%s %s", rt.method, rt.path)
			}
		})
	}
}

func TestAPIRoutes_AdminTreeNeedsSession(t *testing.T) {
	h := newAPIRouter()

	// Unmatched paths under /admin still pass the session guard first.
	code := serve(h, route{http.MethodGet, "/api/admin/nothing-here"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

// AngelaMos | 2026
// routes.go

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JJ-P1114/jj-p1114-studio/internal/admin"
	"github.com/JJ-P1114/jj-p1114-studio/internal/auth"
	"github.com/JJ-P1114/jj-p1114-studio/internal/catalog"
	"github.com/JJ-P1114/jj-p1114-studio/internal/inquiry"
	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
	"github.com/JJ-P1114/jj-p1114-studio/internal/prototype"
	"github.com/JJ-P1114/jj-p1114-studio/internal/user"
)

type apiHandlers struct {
	Auth       *auth.Handler
	Catalog    *catalog.Handler
	Orders     *order.Handler
	Licenses   *license.Handler
	Inquiries  *inquiry.Handler
	Prototypes *prototype.Handler
	Users      *user.Handler
	Admin      *admin.Handler
}

type apiGuards struct {
	Authenticate func(http.Handler) http.Handler
	Optional     func(http.Handler) http.Handler
	StaffOnly    func(http.Handler) http.Handler
	AdminOnly    func(http.Handler) http.Handler
	InquiryLimit func(http.Handler) http.Handler
}

func newGuards(
	sessions middleware.SessionAuthenticator,
	roles middleware.RoleLookup,
	cookieName string,
	inquiryLimit func(http.Handler) http.Handler,
) apiGuards {
	return apiGuards{
		Authenticate: middleware.Authenticator(sessions, cookieName),
		Optional:     middleware.OptionalAuth(sessions, cookieName),
		StaffOnly:    middleware.RequireRole(roles, user.RoleAdmin, user.RoleStaff),
		AdminOnly:    middleware.RequireRole(roles, user.RoleAdmin),
		InquiryLimit: inquiryLimit,
	}
}

// mountAPI registers everything under /api. Every /admin route needs a
// session first, then the staff or admin tier.
func mountAPI(router chi.Router, h apiHandlers, g apiGuards) {
	router.Route("/api", func(r chi.Router) {
		h.Auth.RegisterRoutes(r, g.Authenticate, g.Optional)
		h.Catalog.RegisterRoutes(r, g.Authenticate, g.AdminOnly)
		h.Orders.RegisterRoutes(r, g.Authenticate)
		h.Licenses.RegisterRoutes(r, g.Authenticate)
		h.Inquiries.RegisterRoutes(r, g.Authenticate, g.Optional, g.InquiryLimit)
		h.Prototypes.RegisterRoutes(r, g.Authenticate)

		r.Route("/admin", func(r chi.Router) {
			r.Use(g.Authenticate)

			r.Group(func(r chi.Router) {
				r.Use(g.StaffOnly)
				h.Orders.RegisterAdminRoutes(r)
				h.Inquiries.RegisterAdminRoutes(r)
				h.Prototypes.RegisterAdminRoutes(r)
				h.Admin.RegisterStaffRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(g.AdminOnly)
				h.Users.RegisterAdminRoutes(r)
				h.Admin.RegisterAdminRoutes(r)
			})
		})
	})
}

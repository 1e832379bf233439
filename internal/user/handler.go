// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

var knownRoles = []string{RoleClient, RoleStaff, RoleAdmin}

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: core.NewValidator(),
	}
}

// RegisterAdminRoutes expects r to be guarded for the admin role already.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/role", h.UpdateUserRole)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r.URL.Query())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UserListResponse{
		Users:    ToUserResponseList(users),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

// UpdateUserRole is the only path that changes a persisted role. Admins
// cannot change their own role, so the last admin cannot lock everyone out.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == middleware.GetUserID(r.Context()) {
		core.JSONError(w, core.ValidationError("cannot change your own role", "role"))
		return
	}

	var req UpdateUserRoleRequest
	if err := core.Bind(r, h.validate, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	u, err := h.service.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		writeUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrInvalidInput):
		core.JSONError(w, core.ValidationError("invalid role", "role"))
	default:
		core.InternalServerError(w, err)
	}
}

// listParams reads paging and filters. Malformed numbers fall back to the
// defaults; an unknown role filter is rejected.
func listParams(q url.Values) (ListUsersParams, error) {
	p := ListUsersParams{
		Page:     queryInt(q, "page"),
		PageSize: queryInt(q, "pageSize"),
		Search:   strings.TrimSpace(q.Get("search")),
		Role:     q.Get("role"),
	}
	if p.Role != "" && !slices.Contains(knownRoles, p.Role) {
		return p, core.ValidationError("unknown role filter", "role")
	}

	p.Normalize()
	return p, nil
}

func queryInt(q url.Values, key string) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return n
}

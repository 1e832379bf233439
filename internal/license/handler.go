// AngelaMos | 2026
// handler.go

package license

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/licenses", func(r chi.Router) {
		r.Get("/verify/{key}", h.Verify)
		r.With(authenticator).Get("/", h.ListMine)
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	items, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToLicenseResponseList(items))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Verify(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "License")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

// AngelaMos | 2026
// handler.go

package inquiry

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /inquiries. Submission is open to anonymous callers
// and passes through submitLimit after the optional session lookup, so a
// signed-in caller is limited per user and everyone else per address.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth, submitLimit func(http.Handler) http.Handler,
) {
	r.Route("/inquiries", func(r chi.Router) {
		r.With(optionalAuth, submitLimit).Post("/", h.Create)
		r.With(authenticator).Get("/", h.ListMine)
	})
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/inquiries", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInquiryRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	i, err := h.service.Submit(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToInquiryResponse(i))
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

	core.OK(w, ToInquiryResponseList(items))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInquiryResponseList(items))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	i, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Inquiry")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToInquiryResponse(i))
}

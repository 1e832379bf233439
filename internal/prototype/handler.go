// AngelaMos | 2026
// handler.go

package prototype

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/prototypes", func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
	})
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/prototypes", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreatePrototypeRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToPrototypeResponse(p))
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

	core.OK(w, ToPrototypeResponseList(items))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := core.IDParam(r, "id")
	if err != nil {
		core.NotFound(w, "Prototype")
		return
	}

	p, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	core.OK(w, ToPrototypeResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	id, err := core.IDParam(r, "id")
	if err != nil {
		core.NotFound(w, "Prototype")
		return
	}

	var req UpdatePrototypeRequest
	if err := core.Bind(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, userID, req)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	core.OK(w, ToPrototypeResponse(p))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPrototypeResponseList(items))
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

	p, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	core.OK(w, ToPrototypeResponse(p))
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "Prototype")
		return
	}
	core.InternalServerError(w, err)
}

// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
)

const (
	loginPath     = "/api/login"
	afterLoginURL = "/"
)

type Handler struct {
	service *Service
	cookie  config.SessionConfig
}

func NewHandler(service *Service, cookie config.SessionConfig) *Handler {
	return &Handler{
		service: service,
		cookie:  cookie,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Get("/login", h.Login)
	r.Get("/callback", h.Callback)
	r.Get("/logout", h.Logout)

	r.Route("/auth", func(r chi.Router) {
		r.With(optionalAuth).Get("/user", h.GetUser)
		r.With(authenticator).Post("/token", h.IssueToken)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.BeginLogin(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// Callback sends the browser back to the login route on any failure.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		slog.Warn("identity provider returned an error",
			"error", providerErr,
			"description", q.Get("error_description"),
		)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	cookieValue, err := h.service.CompleteLogin(
		r.Context(),
		q.Get("state"),
		q.Get("code"),
	)
	if err != nil {
		if !errors.Is(err, ErrInvalidState) {
			slog.Error("login callback failed", "error", err)
		}
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	http.SetCookie(w, h.sessionCookie(cookieValue, int(h.cookie.TTL.Seconds())))
	http.Redirect(w, r, afterLoginURL, http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cred := middleware.ExtractCredential(r, h.cookie.CookieName)
	target := h.service.Logout(r.Context(), cred)

	http.SetCookie(w, h.sessionCookie("", -1))
	http.Redirect(w, r, target, http.StatusFound)
}

// GetUser answers null for anonymous callers instead of 401.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.OK(w, json.RawMessage("null"))
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.OK(w, json.RawMessage("null"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user)
}

func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		core.Unauthorized(w, "")
		return
	}

	resp, err := h.service.IssueAccessToken(identity)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const probeTimeout = 2 * time.Second

// Backend is an infrastructure dependency shown on the system page.
type Backend struct {
	Name string
	Ping func(ctx context.Context) error
	Pool func() any
}

type Handler struct {
	service  *Service
	backends []Backend
}

type HandlerConfig struct {
	Service  *Service
	Backends []Backend
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		service:  cfg.Service,
		backends: cfg.Backends,
	}
}

// RegisterStaffRoutes mounts the dashboard. The caller applies the guard.
func (h *Handler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/stats", h.GetDashboardStats)
}

// RegisterAdminRoutes mounts runtime diagnostics. The caller applies the guard.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/", h.GetSystemStats)
		r.Get("/runtime", h.GetRuntimeStats)
		r.Get("/backends/{name}", h.GetBackend)
	})
}

func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Stats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	statuses := make([]BackendStatus, len(h.backends))

	g, ctx := errgroup.WithContext(r.Context())
	for i, b := range h.backends {
		g.Go(func() error {
			statuses[i] = probe(ctx, b)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes never fail the group

	core.OK(w, SystemStatsResponse{
		Backends: statuses,
		Runtime:  readRuntimeStats(),
	})
}

func (h *Handler) GetBackend(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, b := range h.backends {
		if b.Name == name {
			core.OK(w, probe(r.Context(), b))
			return
		}
	}
	core.NotFound(w, "backend")
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func probe(ctx context.Context, b Backend) BackendStatus {
	status := BackendStatus{Name: b.Name, Healthy: true}

	if b.Ping != nil {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		start := time.Now()
		if err := b.Ping(ctx); err != nil {
			status.Healthy = false
			slog.WarnContext(ctx, "backend probe failed", "backend", b.Name, "error", err)
		}
		status.LatencyMs = time.Since(start).Milliseconds()
	}

	if b.Pool != nil {
		status.Pool = b.Pool()
	}
	return status
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

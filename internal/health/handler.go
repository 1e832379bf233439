// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Check is a named dependency probed by /readyz. A failing check that is not
// Critical is reported but does not fail readiness.
type Check struct {
	Name     string
	Checker  Checker
	Critical bool
}

type phase int32

const (
	phaseServing phase = iota
	phaseNotReady
	phaseDraining
)

type Handler struct {
	checks []Check
	phase  atomic.Int32
}

func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) current() phase {
	return phase(h.phase.Load())
}

// SetReady toggles readiness while serving. It has no effect once draining.
func (h *Handler) SetReady(ready bool) {
	from, to := phaseNotReady, phaseServing
	if !ready {
		from, to = phaseServing, phaseNotReady
	}
	h.phase.CompareAndSwap(int32(from), int32(to))
}

// SetShutdown moves the handler into draining. Both probes fail from then on.
func (h *Handler) SetShutdown(shutdown bool) {
	if shutdown {
		h.phase.Store(int32(phaseDraining))
		return
	}
	h.phase.Store(int32(phaseServing))
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.current() == phaseDraining {
		writeProbe(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "shutting_down"})
		return
	}
	writeProbe(w, http.StatusOK, ReadinessResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch h.current() {
	case phaseDraining:
		writeProbe(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "shutting_down"})
		return
	case phaseNotReady:
		writeProbe(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := ReadinessResponse{Status: "ok", Checks: h.probeAll(ctx)}
	code := http.StatusOK
	for i, c := range resp.Checks {
		if c.Healthy {
			continue
		}
		resp.Status = "degraded"
		if h.checks[i].Critical {
			code = http.StatusServiceUnavailable
		}
	}

	writeProbe(w, code, resp)
}

func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	results := make([]HealthCheck, len(h.checks))

	var g errgroup.Group
	for i, c := range h.checks {
		g.Go(func() error {
			results[i] = probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes report through results

	return results
}

// probe never exposes the underlying error; dependency details stay in logs.
func probe(ctx context.Context, c Check) HealthCheck {
	if c.Checker == nil {
		return HealthCheck{Name: c.Name, Message: "not configured"}
	}

	start := time.Now()
	err := c.Checker.Ping(ctx)
	result := HealthCheck{
		Name:    c.Name,
		Healthy: err == nil,
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
	if err != nil {
		result.Message = "ping failed"
	}
	return result
}

func writeProbe(w http.ResponseWriter, code int, body ReadinessResponse) {
	w.Header().Set("Cache-Control", "no-store")
	core.JSON(w, code, body)
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks,omitempty"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// AngelaMos | 2026
// metrics.go

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RequestRecorder interface {
	RecordRequest(
		ctx context.Context,
		method, route string,
		status int,
		elapsed time.Duration,
	)
}

// Metrics records request counts and latency by chi route pattern so that
// path parameters do not explode label cardinality.
func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			recorder.RecordRequest(
				r.Context(),
				r.Method,
				route,
				status,
				time.Since(start),
			)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"interiorai/internal/infra"
	"interiorai/internal/metrics"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger writes one access line per request and records it in m. Routes are
// labelled by their chi pattern so ids in paths do not explode cardinality.
func Logger(l *infra.Logger, m *metrics.Collector) func(http.Handler) http.Handler {
	l = infra.OrDiscard(l)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			took := time.Since(start)
			m.ObserveHTTP(r.Method, route, rw.status, took)

			ev := l.Info()
			if rw.status >= http.StatusInternalServerError {
				ev = l.Error()
			}
			ev.Str("method", r.Method).
				Str("route", route).
				Int("status", rw.status).
				Dur("took", took).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("http: request")
		})
	}
}

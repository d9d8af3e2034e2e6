package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bazarly/backend/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records per-route latency and error counters.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.HTTPRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			if rec.status >= http.StatusBadRequest {
				m.HTTPErrorsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			}
		})
	}
}

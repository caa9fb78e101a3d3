package middleware

import (
	"net/http"
	"strconv"
	"time"

	"tzschedule/internal/metrics"
)

// MetricsMiddleware records request count and latency per route pattern.
// The registered mux pattern is used as the label so path parameters do not
// explode the cardinality.
func MetricsMiddleware(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(r.Method, route, strconv.Itoa(wrapped.status), time.Since(start))
	})
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/shortlinks/internal/metrics"
)

// WithMetrics counts requests and observes their latency, labelled by the
// chi route pattern so path parameters do not explode the series.
func WithMetrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := newLoggingResponseWriter(w)

			next.ServeHTTP(lw, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					path = p
				}
			}

			status := lw.responseData.status
			reg.Inc(metrics.HTTPRequestsTotal, metrics.Labels{
				"method": r.Method,
				"path":   path,
				"status": strconv.Itoa(status),
			})
			reg.Observe(metrics.HTTPRequestDurationMs, metrics.Labels{
				"method": r.Method,
				"path":   path,
			}, float64(time.Since(start).Microseconds())/1000)

			if status >= http.StatusInternalServerError {
				reg.Inc(metrics.ErrorsTotal, metrics.Labels{"type": "http_5xx"})
			}
		})
	}
}

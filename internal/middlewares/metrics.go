package middlewares

import (
	"net/http"
	"strconv"

	"github.com/sbilibin2017/gw-user-registration/internal/metrics"
)

// MetricsMiddleware records per-route request counts with method and status.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			metrics.RequestsTotal.
				WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rw.statusCode)).
				Inc()
		})
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/pkg/metrics"
)

// Metrics records request count, latency and in-flight gauge per route.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			inFlight := metrics.HttpRequestsInFlight.WithLabelValues(serviceName)
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			metrics.RecordHTTPMetrics(serviceName, r.Method, routeLabel(r), rec.Status(), time.Since(start))
		})
	}
}

// routeLabel keeps the path label bounded: unknown paths collapse to "other".
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	switch p := r.URL.Path; {
	case p == "/health", strings.HasPrefix(p, "/auth/"), strings.HasPrefix(p, "/trips"),
		strings.HasPrefix(p, "/mirror/"), strings.HasPrefix(p, "/reports/"),
		p == "/suggestions", p == "/ws/trips":
		return p
	case strings.HasPrefix(p, "/swagger/"):
		return "/swagger/"
	default:
		return "other"
	}
}

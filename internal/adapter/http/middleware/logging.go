package middleware

import (
	"net/http"
	"time"
)

// Logging writes one record per request. Server errors go out at Warn, the rest at Debug.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)

		next.ServeHTTP(rec, r)

		logf := m.log.Debug
		if rec.Status() >= http.StatusInternalServerError {
			logf = m.log.Warn
		}
		logf(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

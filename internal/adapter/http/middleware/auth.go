package middleware

import (
	"errors"
	"net/http"
	"strings"

	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

var errBadAuthHeader = errors.New("invalid Authorization header format")

// Auth resolves a bearer token to a driver and puts the driver into the log context.
// Requests without a token pass through anonymously; RequireDriver guards the
// routes that need one.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		driver, err := m.auth.Authenticate(ctx, token)
		if err != nil || driver == "" {
			m.log.Warn(wrap.WithAction(ctx, "authenticate"), "failed to authenticate driver", "error", errString(err))
			errorResponse(w, r, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(wrap.WithDriver(ctx, driver)))
	})
}

// RequireDriver allows only authenticated drivers.
func (m *Middleware) RequireDriver(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wrap.GetDriver(r.Context()) == "" {
			errorResponse(w, r, http.StatusUnauthorized, "authorization required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errBadAuthHeader
	}
	return parts[1], nil
}

func errString(err error) string {
	if err == nil {
		return "empty driver"
	}
	return err.Error()
}

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/miletracker/docs"
	"github.com/Temutjin2k/miletracker/internal/adapter/http/middleware"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *Handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.Health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupAuthRoutes(mux, routes, m)
	setupTripRoutes(mux, routes, m)
	setupReportRoutes(mux, routes, m)
}

func setupAuthRoutes(mux *http.ServeMux, routes *Handlers, m *middleware.Middleware) {
	mux.HandleFunc("POST /auth/login", routes.Auth.Login)
	mux.Handle("GET /auth/me", m.RequireDriver(routes.Auth.Me))
}

func setupTripRoutes(mux *http.ServeMux, routes *Handlers, m *middleware.Middleware) {
	mux.Handle("POST /trips", m.RequireDriver(routes.Trip.Submit))       // Submit an odometer reading
	mux.Handle("GET /trips", m.RequireDriver(routes.Trip.List))          // Chained trip log
	mux.Handle("GET /trips/latest", m.RequireDriver(routes.Trip.Latest)) // Latest entry, sheet state, next turn

	if routes.Mirror != nil {
		mux.Handle("GET /mirror/latest", m.RequireDriver(routes.Mirror.Latest))
		mux.Handle("GET /mirror/table", m.RequireDriver(routes.Mirror.Table))
	}
	if routes.Suggestion != nil {
		mux.Handle("POST /suggestions", m.RequireDriver(routes.Suggestion.Create))
	}
	if routes.Feed != nil {
		mux.HandleFunc("GET /ws/trips", routes.Feed.Serve) // WebSocket feed of committed trips
	}
}

func setupReportRoutes(mux *http.ServeMux, routes *Handlers, m *middleware.Middleware) {
	if routes.Report == nil {
		return
	}
	mux.Handle("GET /reports/totals", m.RequireDriver(routes.Report.Totals))
	mux.Handle("GET /reports/totals.pdf", m.RequireDriver(routes.Report.TotalsPDF))
}

// setupSwaggerRoutes serves the Swagger UI for the registered docs instance
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}

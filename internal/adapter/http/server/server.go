package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/internal/adapter/http/handler"
	"github.com/Temutjin2k/miletracker/internal/adapter/http/middleware"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

const ServiceName = "miletracker"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *Handlers
	m      *middleware.Middleware

	addr string
	cfg  config.HTTPConfig
	log  logger.Logger
}

// Handlers groups the route handlers. Feed and Suggestion may be nil.
type Handlers struct {
	Health     *handler.Health
	Auth       *handler.Auth
	Trip       *handler.Trip
	Mirror     *handler.Mirror
	Report     *handler.Report
	Suggestion *handler.Suggestion
	Feed       *handler.TripFeed
}

func New(cfg config.HTTPConfig, routes *Handlers, authService middleware.AuthService, logger logger.Logger) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}
	if routes == nil || routes.Health == nil || routes.Auth == nil || routes.Trip == nil {
		return nil, errors.New("health, auth and trip handlers are required")
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(authService, logger),
		addr:   net.JoinHostPort("0.0.0.0", cfg.Port),
		cfg:    cfg,
		log:    logger,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return api, nil
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(ServiceName)(a.m.Logging(a.m.Auth(a.mux)))))
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ShutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// Run serves in the background. A listen failure is sent on errCh.
func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/internal/adapter/gemini"
	"github.com/Temutjin2k/miletracker/internal/adapter/http/handler"
	"github.com/Temutjin2k/miletracker/internal/adapter/http/server"
	rabbitpub "github.com/Temutjin2k/miletracker/internal/adapter/rabbit"
	"github.com/Temutjin2k/miletracker/internal/adapter/relay"
	"github.com/Temutjin2k/miletracker/internal/adapter/sheets"
	"github.com/Temutjin2k/miletracker/internal/service/auth"
	"github.com/Temutjin2k/miletracker/internal/service/report"
	"github.com/Temutjin2k/miletracker/internal/service/trip"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/passhash"
	"github.com/Temutjin2k/miletracker/pkg/rabbit"
	"github.com/Temutjin2k/miletracker/pkg/wshub"
)

const heartbeatInterval = 30 * time.Second

var ErrServiceNotInitialized = errors.New("service not initialized")

type App struct {
	store   *Store
	sheet   *sheets.Client
	trips   *trip.Service
	reports *report.Service
	rabbit  *rabbit.RabbitMQ
	hub     *wshub.ConnectionHub
	feed    *handler.TripFeed
	api     *server.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires the record store, the outbound adapters and the HTTP API.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	if err := app.initCore(ctx, true); err != nil {
		app.close(ctx)
		return nil, err
	}
	if err := app.initAPI(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

// NewCore wires the store and the trip service without the HTTP side.
// The CLI uses it for one-off submissions and reports.
func NewCore(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}
	if err := app.initCore(ctx, false); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) Trips() *trip.Service     { return a.trips }
func (a *App) Reports() *report.Service { return a.reports }

func (a *App) initCore(ctx context.Context, live bool) error {
	store, err := OpenStore(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	a.store = store

	opts := []trip.Option{
		trip.WithMinDelay(a.cfg.Relay.MinDelay),
		trip.WithDefaultNote(a.cfg.Trip.DefaultNote),
	}

	if a.cfg.RabbitMQ.Enabled {
		a.rabbit, err = rabbit.New(ctx, a.cfg.RabbitMQ.GetDSN(), a.log, a.cfg.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		opts = append(opts, trip.WithPublisher(rabbitpub.NewTripPublisher(a.rabbit, a.cfg.RabbitMQ.Exchange)))
	}

	if live {
		a.hub = wshub.NewConnHub("trips", a.log)
		a.feed = handler.NewTripFeed(a.hub, a.log)
		opts = append(opts, trip.WithBroadcaster(a.feed))
	}

	var mirror trip.MirrorReader
	if url := a.cfg.Mirror.SheetURL(); url != "" {
		a.sheet = sheets.New(url, a.cfg.Mirror.Timeout, a.cfg.Relay.OdometerField)
		mirror = a.sheet
	}

	a.trips = trip.New(store.Repo, store.Tx, mirror, a.relay(), a.log, opts...)
	a.reports = report.New(a.trips, a.log)
	return nil
}

func (a *App) relay() trip.Relay {
	if a.cfg.Relay.FormURL == "" {
		return nil
	}
	loc, _ := a.cfg.Relay.Location() // checked by config.Validate
	return relay.NewFormRelay(a.cfg.Relay.FormURL, relay.Fields{
		Driver:    a.cfg.Relay.DriverField,
		Odometer:  a.cfg.Relay.OdometerField,
		Timestamp: a.cfg.Relay.TimestampField,
	}, loc, a.cfg.Relay.Timeout)
}

func (a *App) initAPI(ctx context.Context) error {
	pins, err := a.cfg.Auth.DriverPINs()
	if err != nil {
		return err
	}
	creds := make([]auth.Credential, 0, len(pins))
	for _, p := range pins {
		creds = append(creds, auth.Credential{Name: p.Name, PIN: p.PIN})
	}
	authService, err := auth.NewAuthService(creds, auth.NewTokenService(a.cfg.Auth.JWTSecret, a.cfg.Auth.AccessTokenTTL), passhash.DefaultCost, a.log)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	suggester, err := gemini.New(ctx, a.cfg.Suggestion.APIKey, a.cfg.Suggestion.Model, a.log)
	if err != nil {
		return fmt.Errorf("init suggestions: %w", err)
	}

	loc, _ := a.cfg.Relay.Location()
	tripHandler := handler.NewTrip(a.trips, authService.Drivers(), loc, a.log)

	var table handler.MirrorTableReader
	if a.sheet != nil {
		table = a.sheet
	}

	a.api, err = server.New(a.cfg.HTTP, &server.Handlers{
		Health:     handler.NewHealth(server.ServiceName, a.store.Backend, a.store.Repo, a.log),
		Auth:       handler.NewAuth(authService, a.log),
		Trip:       tripHandler,
		Mirror:     handler.NewMirror(a.trips, table, a.log),
		Report:     handler.NewReport(tripHandler, a.reports, a.log),
		Suggestion: handler.NewSuggestion(suggester, a.log),
		Feed:       a.feed,
	}, authService, a.log)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}
	return nil
}

// Run serves until SIGINT/SIGTERM, ctx cancellation or a server failure.
func (a *App) Run(ctx context.Context) error {
	if a.api == nil {
		return ErrServiceNotInitialized
	}
	ctx = wrap.WithAction(ctx, "app_run")

	errCh := make(chan error, 1)
	a.api.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "miletracker stopped")
	}()

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go a.hub.Heartbeat(hbCtx, heartbeatInterval)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	a.log.Info(ctx, "miletracker started", "backend", a.store.Backend)

	select {
	case err := <-errCh:
		return err
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Close releases everything NewCore acquired.
func (a *App) Close(ctx context.Context) { a.close(ctx) }

func (a *App) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	if a.api != nil {
		if err := a.api.Stop(ctx); err != nil {
			a.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
		a.api = nil
	}
	if a.hub != nil {
		a.hub.Close()
		a.hub = nil
	}
	if a.rabbit != nil {
		if err := a.rabbit.Close(ctx); err != nil {
			a.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
		a.rabbit = nil
	}
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

package app

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/internal/adapter/memory"
	pgrepo "github.com/Temutjin2k/miletracker/internal/adapter/postgres"
	"github.com/Temutjin2k/miletracker/internal/adapter/sqlite"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/service/trip"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/postgres"
	"github.com/Temutjin2k/miletracker/pkg/trm"
)

// RecordStore is the trip repository of one backend together with its
// transaction manager.
type RecordStore interface {
	trip.TripRepo
	Ping(ctx context.Context) error
}

type Store struct {
	Backend string
	Repo    RecordStore
	Tx      trm.TxManager

	migrations func(ctx context.Context) ([]models.SchemaMigration, error)
	closers    []func()
}

// Migrations lists the schema changes applied to the backend. The memory store has none.
func (s *Store) Migrations(ctx context.Context) ([]models.SchemaMigration, error) {
	if s.migrations == nil {
		return nil, nil
	}
	return s.migrations(ctx)
}

// Close releases the backend in reverse order of acquisition.
func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStore connects the configured backend and brings its schema up to date.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (*Store, error) {
	ctx = wrap.WithAction(ctx, "open_store")

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		m := memory.NewTripStore()
		log.Warn(ctx, "using in-memory record store, entries are lost on restart")
		return &Store{Backend: config.BackendMemory, Repo: m, Tx: m}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		w := sqlite.NewWorker(db)
		log.Info(ctx, "sqlite record store ready", "path", cfg.Storage.SQLitePath)
		return &Store{
			Backend: config.BackendSQLite,
			Repo:    sqlite.NewTripRepo(db, w),
			Tx:      sqlite.NewTxManager(w),
			migrations: func(ctx context.Context) ([]models.SchemaMigration, error) {
				return sqlite.Applied(ctx, db)
			},
			closers: []func(){func() { _ = db.Close() }, w.Close},
		}, nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pgrepo.Migrate(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}
		log.Info(ctx, "postgres record store ready", "host", cfg.Database.Host, "database", cfg.Database.Database)
		return &Store{
			Backend: config.BackendPostgres,
			Repo:    pgrepo.NewTripRepo(db.Pool),
			Tx:      pgrepo.NewChainTx(trm.New(db.Pool)),
			migrations: func(ctx context.Context) ([]models.SchemaMigration, error) {
				return pgrepo.Applied(ctx, db.Pool)
			},
			closers: []func(){db.Close},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Storage.Backend)
	}
}

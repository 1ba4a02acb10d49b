package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
	"github.com/Temutjin2k/miletracker/pkg/postgres"
)

const backend = "postgres"

// chainLockKey guards the trip chain. Every accepting transaction takes it first.
const chainLockKey int64 = 0x74726970

var ErrNoTransaction = errors.New("chain lock requires a transaction")

type TripRepo struct {
	db *pgxpool.Pool
}

func NewTripRepo(db *pgxpool.Pool) *TripRepo {
	return &TripRepo{db: db}
}

const tripColumns = `id, driver_name, start_odometer, end_odometer, note, start_time, end_time`

// LockChain takes a transaction-scoped advisory lock, released on commit or rollback.
func (r *TripRepo) LockChain(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "lock_chain", err, time.Since(start)) }()

	if !inTx(ctx) {
		return fmt.Errorf("trip repo: LockChain: %w", ErrNoTransaction)
	}
	if _, err := TxorDB(ctx, r.db).Exec(ctx, "SELECT pg_advisory_xact_lock($1);", chainLockKey); err != nil {
		return fmt.Errorf("trip repo: LockChain: %w", err)
	}
	return nil
}

func (r *TripRepo) Latest(ctx context.Context) (_ *models.TripEntry, err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "latest", err, time.Since(start)) }()

	query := `
        SELECT ` + tripColumns + `
        FROM trips
        ORDER BY start_time DESC, id DESC
        LIMIT 1;`

	e, err := scanTrip(TxorDB(ctx, r.db).QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("trip repo: Latest: %w", err)
	}
	return &e, nil
}

func (r *TripRepo) List(ctx context.Context) (_ []models.TripEntry, err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "list", err, time.Since(start)) }()

	query := `
        SELECT ` + tripColumns + `
        FROM trips
        ORDER BY start_time ASC, id ASC;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("trip repo: List: %w", err)
	}
	defer rows.Close()

	var out []models.TripEntry
	for rows.Next() {
		e, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("trip repo: List (scan): %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip repo: List: %w", err)
	}
	return out, nil
}

func (r *TripRepo) Create(ctx context.Context, e models.TripEntry) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "create", err, time.Since(start)) }()

	query := `
        INSERT INTO trips (id, driver_name, start_odometer, end_odometer, note, start_time, end_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = TxorDB(ctx, r.db).Exec(ctx, query,
		e.ID, e.DriverName, e.StartOdometer, e.EndOdometer, e.Note, e.StartTime.UTC(), utcPtr(e.EndTime),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("trip repo: Create: %w: %w", types.ErrChainConflict, err)
		}
		return fmt.Errorf("trip repo: Create: %w", err)
	}
	return nil
}

func (r *TripRepo) Close(ctx context.Context, id string, endOdometer float64, endTime time.Time) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "close", err, time.Since(start)) }()

	query := `
        UPDATE trips
        SET end_odometer = $2, end_time = $3
        WHERE id = $1 AND end_odometer IS NULL;`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, endOdometer, endTime.UTC())
	if err != nil {
		return fmt.Errorf("trip repo: Close: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip repo: Close: trip %s: %w", id, types.ErrChainConflict)
	}
	return nil
}

func (r *TripRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanTrip(row pgx.Row) (models.TripEntry, error) {
	var e models.TripEntry
	if err := row.Scan(&e.ID, &e.DriverName, &e.StartOdometer, &e.EndOdometer, &e.Note, &e.StartTime, &e.EndTime); err != nil {
		return models.TripEntry{}, err
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = utcPtr(e.EndTime)
	return e, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

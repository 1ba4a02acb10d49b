package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
)

const backend = "sqlite"

type TripRepo struct {
	db     *sql.DB
	writer *Worker
}

func NewTripRepo(db *sql.DB, writer *Worker) *TripRepo {
	return &TripRepo{db: db, writer: writer}
}

const tripColumns = `id, driver_name, start_odometer, end_odometer, note, start_time_ms, end_time_ms`

// write runs fn in the caller's transaction, or in a fresh writer transaction.
func (r *TripRepo) write(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	if inTx(ctx) {
		return fn(ctx, TxorDB(ctx, r.db))
	}
	return r.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, tx)
	})
}

// LockChain is a no-op: every transaction already runs on the single writer.
func (r *TripRepo) LockChain(ctx context.Context) error {
	return ctx.Err()
}

func (r *TripRepo) Latest(ctx context.Context) (_ *models.TripEntry, err error) {
	const op = "TripRepo.Latest"
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "latest", err, time.Since(start)) }()

	row := TxorDB(ctx, r.db).QueryRowContext(ctx, `
SELECT `+tripColumns+`
FROM trips
ORDER BY start_time_ms DESC, id DESC
LIMIT 1;`)

	e, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

func (r *TripRepo) List(ctx context.Context) (_ []models.TripEntry, err error) {
	const op = "TripRepo.List"
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "list", err, time.Since(start)) }()

	rows, err := TxorDB(ctx, r.db).QueryContext(ctx, `
SELECT `+tripColumns+`
FROM trips
ORDER BY start_time_ms ASC, id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.TripEntry
	for rows.Next() {
		e, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *TripRepo) Create(ctx context.Context, e models.TripEntry) (err error) {
	const op = "TripRepo.Create"
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "create", err, time.Since(start)) }()

	var endOdo, endMs any
	if e.EndOdometer != nil {
		endOdo = *e.EndOdometer
	}
	if e.EndTime != nil {
		endMs = e.EndTime.UTC().UnixMilli()
	}

	return r.write(ctx, func(ctx context.Context, q Querier) error {
		if _, err := q.ExecContext(ctx, `
INSERT INTO trips(id, driver_name, start_odometer, end_odometer, note, start_time_ms, end_time_ms, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			e.ID, e.DriverName, e.StartOdometer, endOdo, e.Note,
			e.StartTime.UTC().UnixMilli(), endMs, time.Now().UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}

func (r *TripRepo) Close(ctx context.Context, id string, endOdometer float64, endTime time.Time) (err error) {
	const op = "TripRepo.Close"
	start := time.Now()
	defer func() { metrics.RecordDatabaseQuery(backend, "close", err, time.Since(start)) }()

	return r.write(ctx, func(ctx context.Context, q Querier) error {
		res, err := q.ExecContext(ctx, `
UPDATE trips
SET end_odometer = ?, end_time_ms = ?
WHERE id = ? AND end_odometer IS NULL;`,
			endOdometer, endTime.UTC().UnixMilli(), id,
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: rows affected: %w", op, err)
		}
		if n == 0 {
			return fmt.Errorf("%s: trip %s: %w", op, id, types.ErrChainConflict)
		}
		return nil
	})
}

func (r *TripRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (models.TripEntry, error) {
	var (
		e       models.TripEntry
		endOdo  sql.NullFloat64
		startMs int64
		endMs   sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.DriverName, &e.StartOdometer, &endOdo, &e.Note, &startMs, &endMs); err != nil {
		return models.TripEntry{}, err
	}

	e.StartTime = time.UnixMilli(startMs).UTC()
	if endOdo.Valid {
		e.EndOdometer = models.Float(endOdo.Float64)
	}
	if endMs.Valid {
		e.EndTime = models.Time(time.UnixMilli(endMs.Int64).UTC())
	}
	return e, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

var ErrWorkerClosed = errors.New("sqlite writer closed")

type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker runs write transactions one at a time on a single goroutine.
type Worker struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}
	quit chan struct{}
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:   db,
		jobs: make(chan job, 64),
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (w *Worker) Close() {
	select {
	case <-w.quit:
		return
	default:
	}
	close(w.quit)
	<-w.done
}

func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)
	j := job{ctx: ctx, fn: fn, ch: ch}

	select {
	case w.jobs <- j:
	case <-w.quit:
		return ErrWorkerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// The loop still finishes a job whose caller gave up; its result is dropped.
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	for {
		select {
		case j := <-w.jobs:
			j.ch <- w.run(j)
		case <-w.quit:
			for {
				select {
				case j := <-w.jobs:
					j.ch <- w.run(j)
				default:
					return
				}
			}
		}
	}
}

func (w *Worker) run(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(j.ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = errors.New("sqlite writer: transaction panicked")
		}
	}()

	if err := j.fn(j.ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

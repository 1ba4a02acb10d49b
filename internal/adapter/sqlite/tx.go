package sqlite

import (
	"context"
	"database/sql"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ctxKeyTx struct{}

// TxorDB returns the transaction carried by ctx, or db.
func TxorDB(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(ctxKeyTx{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKeyTx{}).(*sql.Tx)
	return ok
}

// TxManager runs functions inside a Worker transaction and exposes the
// transaction to repositories through the context.
type TxManager struct {
	w *Worker
}

func NewTxManager(w *Worker) *TxManager {
	return &TxManager{w: w}
}

// Do joins the transaction already in ctx or starts a new one on the writer.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	return m.w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return fn(context.WithValue(ctx, ctxKeyTx{}, tx))
	})
}

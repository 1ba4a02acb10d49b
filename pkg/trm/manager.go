package trm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager is a TxManager that can also open read-only transactions.
type ReadOnlyManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnly runs fn in a read-only transaction when m supports one, otherwise
// directly. A transaction already in ctx is reused either way.
func ReadOnly(ctx context.Context, m TxManager, fn func(ctx context.Context) error) error {
	if ro, ok := m.(ReadOnlyManager); ok {
		return ro.DoReadOnly(ctx, fn)
	}
	return fn(ctx)
}

// Beginner starts pgx transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Manager implements a transaction manager using pgx.
// Repositories pick the transaction up from the context via TxKey.
type Manager struct {
	db Beginner
}

// New returns a new Transaction Manager
func New(db Beginner) *Manager {
	return &Manager{db: db}
}

type ctxKeyTx struct{}
type ctxTxOptions struct{}

var TxKey = ctxKeyTx{}
var txOptions = ctxTxOptions{}

var ErrInvalidTx = errors.New("invalid transaction type in context")

// Do executes fn within a transaction. A transaction already in ctx is joined
// and left for its owner to finish; otherwise a new one is started and
// committed when fn returns nil, rolled back when it returns an error or panics.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if existing := ctx.Value(TxKey); existing != nil {
		if _, ok := existing.(pgx.Tx); !ok {
			return ErrInvalidTx
		}
		return fn(ctx)
	}

	opts, _ := ctx.Value(txOptions).(pgx.TxOptions)
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start new transaction: %w", err)
	}
	ctx = context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
		}
	}()

	return fn(ctx)
}

// DoReadOnly executes fn within a read-only transaction.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(WithOptionsCtx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}), fn)
}

func WithOptionsCtx(ctx context.Context, opt pgx.TxOptions) context.Context {
	return context.WithValue(ctx, txOptions, opt)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/postgres"
	"github.com/Temutjin2k/miletracker/pkg/trm"
)

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction started by trm.Manager, or the pool.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	return ok
}

// chainAttempts is how many times a chain transaction runs before a
// serialization failure or deadlock is reported as a conflict.
const chainAttempts = 2

// ChainTx runs trip transactions on a trm.TxManager. Serialization failures
// and deadlocks are retried, then surface as types.ErrChainConflict.
type ChainTx struct {
	tx trm.TxManager
}

func NewChainTx(tx trm.TxManager) *ChainTx {
	return &ChainTx{tx: tx}
}

func (c *ChainTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return c.tx.Do(ctx, fn)
	}

	var err error
	for range chainAttempts {
		err = c.tx.Do(ctx, fn)
		if !postgres.IsRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", types.ErrChainConflict, err)
}

// DoReadOnly delegates to the wrapped manager, or runs fn directly when it has no read-only mode.
func (c *ChainTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return trm.ReadOnly(ctx, c.tx, fn)
}

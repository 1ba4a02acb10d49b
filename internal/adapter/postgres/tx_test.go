package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/Temutjin2k/miletracker/internal/adapter/postgres"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

// scriptedManager fails the first len(errs) transactions with errs, in order.
type scriptedManager struct {
	errs  []error
	calls int
}

func (m *scriptedManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.calls <= len(m.errs) {
		return m.errs[m.calls-1]
	}
	return fn(ctx)
}

func TestChainTx(t *testing.T) {
	serialization := fmt.Errorf("failed to commit tx: %w", &pgconn.PgError{Code: "40001"})
	deadlock := &pgconn.PgError{Code: "40P01"}
	plain := errors.New("disk full")
	noop := func(context.Context) error { return nil }

	t.Run("retries once then succeeds", func(t *testing.T) {
		m := &scriptedManager{errs: []error{serialization}}
		require.NoError(t, repo.NewChainTx(m).Do(context.Background(), noop))
		assert.Equal(t, 2, m.calls)
	})

	t.Run("repeated retryable failure is a chain conflict", func(t *testing.T) {
		m := &scriptedManager{errs: []error{serialization, deadlock}}
		err := repo.NewChainTx(m).Do(context.Background(), noop)
		require.ErrorIs(t, err, types.ErrChainConflict)
		assert.Equal(t, 2, m.calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		m := &scriptedManager{errs: []error{plain}}
		err := repo.NewChainTx(m).Do(context.Background(), noop)
		require.ErrorIs(t, err, plain)
		assert.NotErrorIs(t, err, types.ErrChainConflict)
		assert.Equal(t, 1, m.calls)
	})

	t.Run("read-only falls through for plain managers", func(t *testing.T) {
		m := &scriptedManager{}
		ran := false
		require.NoError(t, repo.NewChainTx(m).DoReadOnly(context.Background(), func(context.Context) error {
			ran = true
			return nil
		}))
		assert.True(t, ran)
		assert.Zero(t, m.calls)
	})
}

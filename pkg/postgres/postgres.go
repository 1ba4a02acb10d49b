package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

type Config interface {
	GetDSN() string
}

// PoolSettings sizes the pool. Zero values keep the pgxpool defaults.
type PoolSettings struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PoolConfig is optional; a Config that also implements it sizes the pool.
type PoolConfig interface {
	GetPoolSettings() PoolSettings
}

func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if pc, ok := config.(PoolConfig); ok {
		applyPool(dbConfig, pc.GetPoolSettings())
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}

func (db *PostgreDB) Close() {
	db.Pool.Close()
}

func applyPool(c *pgxpool.Config, s PoolSettings) {
	if s.MaxConns > 0 {
		c.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 {
		c.MinConns = s.MinConns
	}
	if s.MaxConnLifetime > 0 {
		c.MaxConnLifetime = s.MaxConnLifetime
	}
	if s.MaxConnIdleTime > 0 {
		c.MaxConnIdleTime = s.MaxConnIdleTime
	}
}

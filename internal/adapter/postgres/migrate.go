package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLockKey serialises concurrent Migrate calls across processes.
const migrationLockKey int64 = 0x6d696c65

type migration struct {
	version int
	name    string
	sql     string
}

// Migrate applies pending embedded migrations, each in its own transaction.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	ms, err := loadMigrations()
	if err != nil {
		return err
	}

	for _, m := range ms {
		if err := apply(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, db *pgxpool.Pool, m migration) error {
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1);", migrationLockKey); err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1);", m.version,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if exists {
			return nil
		}

		if _, err := tx.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1);", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
		return nil
	})
}

// Applied lists the recorded schema changes, oldest first.
func Applied(ctx context.Context, db *pgxpool.Pool) ([]models.SchemaMigration, error) {
	ms, err := loadMigrations()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(ms))
	for _, m := range ms {
		names[m.version] = m.name
	}

	rows, err := db.Query(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version;")
	if err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SchemaMigration, error) {
		var m models.SchemaMigration
		if err := row.Scan(&m.Version, &m.AppliedAt); err != nil {
			return m, err
		}
		m.Name = names[m.Version]
		m.AppliedAt = m.AppliedAt.UTC()
		return m, nil
	})
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var ms []migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, _, _ := strings.Cut(e.Name(), "_")
		v, err := strconv.Atoi(strings.TrimLeft(prefix, "0"))
		if err != nil {
			return nil, fmt.Errorf("bad migration version %s: %w", e.Name(), err)
		}
		b, err := migrationsFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		ms = append(ms, migration{version: v, name: e.Name(), sql: string(b)})
	}

	sort.Slice(ms, func(i, j int) bool { return ms[i].version < ms[j].version })
	return ms, nil
}

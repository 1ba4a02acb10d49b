package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const schemaTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version       INTEGER PRIMARY KEY,
  applied_at_ms INTEGER NOT NULL
);`

type migration struct {
	version int
	name    string
	sql     string
}

// Migrate brings the trips schema up to date. Each pending file runs in its
// own transaction together with its schema_migrations row.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaTable); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	embedded, err := embeddedMigrations()
	if err != nil {
		return err
	}
	applied, err := Applied(ctx, db)
	if err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}
	for _, m := range embedded {
		if done[m.version] {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
	}
	return nil
}

// Applied lists the recorded schema changes, oldest first.
func Applied(ctx context.Context, db *sql.DB) ([]models.SchemaMigration, error) {
	embedded, err := embeddedMigrations()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(embedded))
	for _, m := range embedded {
		names[m.version] = m.name
	}

	rows, err := db.QueryContext(ctx, "SELECT version, applied_at_ms FROM schema_migrations ORDER BY version;")
	if err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	defer rows.Close()

	var out []models.SchemaMigration
	for rows.Next() {
		var (
			m  models.SchemaMigration
			ms int64
		)
		if err := rows.Scan(&m.Version, &ms); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		m.Name = names[m.Version]
		m.AppliedAt = time.UnixMilli(ms).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: begin: %w", m.name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration %s: %w", m.name, err)
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at_ms) VALUES (?, ?);",
		m.version, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("migration %s: record: %w", m.name, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %s: commit: %w", m.name, err)
	}
	return nil
}

// embeddedMigrations returns migrations/NNNN_name.sql ordered by NNNN.
func embeddedMigrations() ([]migration, error) {
	paths, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	ms := make([]migration, 0, len(paths))
	for _, p := range paths {
		name := path.Base(p)
		prefix, _, ok := strings.Cut(name, "_")
		v, err := strconv.Atoi(prefix)
		if !ok || err != nil {
			return nil, fmt.Errorf("migration %s: name must start with a version number", name)
		}
		body, err := migrationsFS.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		ms = append(ms, migration{version: v, name: name, sql: string(body)})
	}

	slices.SortFunc(ms, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	return ms, nil
}

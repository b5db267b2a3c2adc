package database

import (
	"context"
	"crypto/sha256"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator is the subset of pgxpool.Pool the migration runner needs.
type Migrator interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Migration is one embedded schema file.
type Migration struct {
	Version  string
	Checksum string
	SQL      string
}

// Migrate applies pending embedded migrations in filename order. Applied versions are recorded in
// schema_migrations together with a checksum; a changed file that was already applied is an error.
func Migrate(ctx context.Context, db Migrator, log *zap.Logger) error {
	migrations, err := LoadMigrations()
	if err != nil {
		return err
	}
	return runMigrations(ctx, db, migrations, log)
}

// LoadMigrations reads the embedded migration files sorted by version.
func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationsFS, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version:  entry.Name(),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
			SQL:      string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func runMigrations(ctx context.Context, db Migrator, migrations []Migration, log *zap.Logger) error {
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			checksum   VARCHAR(64)  NOT NULL,
			applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		ok, err := applyMigration(ctx, db, m)
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if ok {
			applied++
			log.Info("migration applied", zap.String("version", m.Version), zap.String("checksum", m.Checksum[:8]))
		} else {
			log.Debug("migration already applied", zap.String("version", m.Version))
		}
	}

	log.Info("migrations complete", zap.Int("applied", applied), zap.Int("total", len(migrations)))
	return nil
}

// ErrChecksumMismatch reports an applied migration whose file has since changed.
var ErrChecksumMismatch = errors.New("migration checksum mismatch")

func applyMigration(ctx context.Context, db Migrator, m Migration) (bool, error) {
	var existing string
	err := db.QueryRow(ctx, `SELECT checksum FROM schema_migrations WHERE version = $1`, m.Version).Scan(&existing)
	if err == nil {
		if existing != m.Checksum {
			return false, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, existing, m.Checksum)
		}
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("execute migration: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`, m.Version, m.Checksum); err != nil {
		return false, fmt.Errorf("record migration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

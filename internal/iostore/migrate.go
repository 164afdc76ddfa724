package iostore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration sets and their version tables.
const (
	entitySet  = "entities"
	historySet = "history"

	entityMigrationsTable  = "alloctrack_entity_migrations"
	historyMigrationsTable = "alloctrack_history_migrations"
)

// dialectDir maps a backend to its migrations subdirectory.
func dialectDir(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migrations are not supported for %s backend", backend)
	}
}

// migrationDir returns the embedded directory holding one set for one dialect.
func migrationDir(set string, backend schema.DatabaseBackend) (string, error) {
	dir, err := dialectDir(backend)
	if err != nil {
		return "", err
	}
	return path.Join("migrations", set, dir), nil
}

// applySchema executes every up migration of the set. All statements are idempotent,
// so this runs on every store open and coexists with versioned migrations.
func applySchema(ctx context.Context, db *sql.DB, set string, backend schema.DatabaseBackend) error {
	dir, err := migrationDir(set, backend)
	if err != nil {
		return err
	}
	files, err := fs.Glob(migrationsFS, path.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	slices.Sort(files)
	for _, file := range files {
		stmt, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, strings.TrimSpace(string(stmt))); err != nil {
			return fmt.Errorf("failed to apply %s: %w", path.Base(file), err)
		}
	}
	return nil
}

// MigrateEntities runs versioned migrations for the entity store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateEntities(ctx context.Context, w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return runMigrations(ctx, w, entitySet, entityMigrationsTable, backend, connStr, contract.GetDBFilePath(), targetVersion)
}

// MigrateHistory runs versioned migrations for the history store with the same
// targetVersion semantics as MigrateEntities.
func MigrateHistory(ctx context.Context, w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return runMigrations(ctx, w, historySet, historyMigrationsTable, backend, connStr, contract.GetHistoryDBFilePath(), targetVersion)
}

func runMigrations(ctx context.Context, w io.Writer, set, versionTable string, backend schema.DatabaseBackend, connStr, defaultPath string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	dir, err := migrationDir(set, backend)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, backend, connStr, defaultPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Create a migrate driver instance
	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: versionTable})
		if err != nil {
			return fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: versionTable})
		if err != nil {
			return fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}
	case schema.PostgreSQLBackend:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: versionTable})
		if err != nil {
			return fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}
	}

	sourceDriver, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "alloctrack", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			_, _ = fmt.Fprintf(w, "Successfully migrated %s from version %d to version %d\n", set, currentVersion, newVersion)
		}
	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at version 0")
		} else {
			_, _ = fmt.Fprintf(w, "Successfully rolled back %s from version %d to version 0\n", set, currentVersion)
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			_, _ = fmt.Fprintf(w, "Successfully migrated %s from version %d to version %d\n", set, currentVersion, targetVersion)
		}
	}
	return nil
}

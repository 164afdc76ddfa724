package iostore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/schema"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := MigrateEntities(context.Background(), &bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")

	err = MigrateHistory(context.Background(), &bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrationFilesPerDialect(t *testing.T) {
	for _, set := range []string{entitySet, historySet} {
		var counts []int
		for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
			dir, err := migrationDir(set, backend)
			require.NoError(t, err)
			entries, err := migrationsFS.ReadDir(dir)
			require.NoError(t, err)
			counts = append(counts, len(entries))
		}
		assert.Equal(t, counts[0], counts[1], "%s: mysql has a different number of migrations", set)
		assert.Equal(t, counts[0], counts[2], "%s: postgres has a different number of migrations", set)
		assert.Zero(t, counts[0]%2, "%s: every migration needs an up and a down file", set)
	}
}

func TestMigrateEntities_SQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "entities.db")
	var out bytes.Buffer

	require.NoError(t, MigrateEntities(ctx, &out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 4")
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	out.Reset()
	require.NoError(t, MigrateEntities(ctx, &out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	require.NoError(t, MigrateEntities(ctx, &out, schema.SQLiteBackend, dbPath, 2))
	require.NoError(t, MigrateEntities(ctx, &out, schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateEntities(ctx, &out, schema.SQLiteBackend, dbPath, 4))

	// The store still opens on a migrated database.
	store, err := NewEntityStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.CreateEmployee(ctx, schema.Employee{Name: "Ann", CapacityPercent: 100})
	assert.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestMigrateHistory_SQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(ctx, &out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 2")
	require.NoError(t, MigrateHistory(ctx, &out, schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateHistory(ctx, &out, schema.SQLiteBackend, dbPath, 1))
}

func TestMigrate_SQLiteInMemory(t *testing.T) {
	err := MigrateEntities(context.Background(), &bytes.Buffer{}, schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}

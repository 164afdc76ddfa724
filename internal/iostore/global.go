package iostore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the entity and history stores.
// historyBackend may be empty or none to disable run tracking.
func InitStores(ctx context.Context, dbBackend schema.DatabaseBackend, dbConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		entity, err := NewEntityStore(ctx, dbBackend, dbConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize entity store: %w", err)
			return
		}

		history, err := NewHistoryStore(ctx, historyBackend, historyConnStr)
		if err != nil {
			_ = entity.Close()
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.entity = entity
		Manager.history = history
		contract.Logger().Debug("stores initialized")
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.entity != nil {
			_ = Manager.entity.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearEntities removes all entity data for the backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops the entity tables and their migration table.
func ClearEntities(ctx context.Context, backend schema.DatabaseBackend, connStr string) error {
	return clearSet(ctx, backend, connStr, contract.GetDBFilePath(), append(entityTables, entityMigrationsTable)...)
}

// ClearHistory removes all run history for the backend. NoneBackend is a no-op.
func ClearHistory(ctx context.Context, backend schema.DatabaseBackend, connStr string) error {
	return clearSet(ctx, backend, connStr, contract.GetHistoryDBFilePath(), append(historyTables, historyMigrationsTable)...)
}

func clearSet(ctx context.Context, backend schema.DatabaseBackend, connStr, defaultPath string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := connStr
		if dbFilePath == "" {
			dbFilePath = defaultPath
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(ctx, backend, connStr, defaultPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return dropTables(ctx, db, backend, tables...)

	case schema.NoneBackend, "":
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// Package iostore persists alloctrack entities and analysis run history in SQL databases.
package iostore

import (
	"sync"

	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// StoreManager holds the entity and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	entity       contract.EntityStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetEntityStore returns the entity store.
func (mgr *StoreManager) GetEntityStore() contract.EntityStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.entity
}

// GetHistoryStore returns the history store.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// NewStoreManager wraps already opened stores, mostly for tests and embedding.
func NewStoreManager(entity contract.EntityStore, history contract.HistoryStore) *StoreManager {
	return &StoreManager{entity: entity, history: history}
}

// Package iocache persists upstream diff stats and run history.
package iocache

import (
	"sync"

	"github.com/huangsam/locgraph/internal/contract"
)

// StoreManager manages the stat cache and run history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stat         contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetStatStore returns the diff stat CacheStore.
func (mgr *StoreManager) GetStatStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stat
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

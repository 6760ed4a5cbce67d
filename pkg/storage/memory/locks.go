package memory

import (
	"sort"
	"sync"

	"github.com/zedx/codeshop/pkg/models"
)

// state holds the store's maps. The mutex is held only while reading or
// applying in-memory state, never across a whole logical transaction; the
// keyedMutex provides the per-entity transaction boundaries.
type state struct {
	mu          sync.RWMutex
	accounts    map[string]*models.Account
	items       map[string]*models.CatalogItem
	codes       map[string]*models.Code
	codesByItem map[string][]*models.Code
	purchases   []models.PurchaseRecord
	seq         int64
}

// countUnused recomputes the number of unused codes for an item.
// Callers must hold the state mutex.
func (st *state) countUnused(itemName string) int64 {
	var n int64
	for _, code := range st.codesByItem[itemName] {
		if code.Status == models.CodeUnused {
			n++
		}
	}
	return n
}

// keyedMutex hands out one mutex per entity key, so operations on different
// accounts and items proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// lock acquires the mutexes for the given keys in sorted order (duplicates
// collapsed) and returns a function releasing them in reverse order.
func (k *keyedMutex) lock(keys ...string) func() {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			sorted = append(sorted, key)
		}
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, key := range sorted {
		m := k.get(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

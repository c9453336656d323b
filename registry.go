package storage

import (
	"fmt"
	"sort"
	"sync"
)

// StoreEntry binds resolvers to the asset types they serve. Any resolver may
// be nil; operations needing a missing resolver fail with
// ErrUnconfiguredCategory.
type StoreEntry struct {
	Name   string
	Types  []AssetType
	Get    Resolver
	Create Resolver
	Update Resolver
}

func (e StoreEntry) resolver(op string) Resolver {
	switch op {
	case opGet:
		return e.Get
	case opCreate:
		return e.Create
	case opUpdate:
		return e.Update
	}
	return nil
}

func (e StoreEntry) clone() StoreEntry {
	e.Types = append([]AssetType(nil), e.Types...)
	return e
}

// Registry maps asset types to their store entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[AssetType]StoreEntry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[AssetType]StoreEntry),
	}
}

// Register stores entry for every listed type, replacing whatever was
// registered for those types before.
func (r *Registry) Register(entry StoreEntry) error {
	if len(entry.Types) == 0 {
		return fmt.Errorf("storage: store %q lists no asset types", entry.Name)
	}
	for _, t := range entry.Types {
		if !t.Valid() {
			return fmt.Errorf("storage: store %q lists unknown asset type %q", entry.Name, t)
		}
	}
	if entry.Get == nil && entry.Create == nil && entry.Update == nil {
		return fmt.Errorf("storage: store %q has no resolvers", entry.Name)
	}
	entry = entry.clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[AssetType]StoreEntry)
	}
	for _, t := range entry.Types {
		r.entries[t] = entry
	}
	return nil
}

// Lookup returns the entry registered for t.
func (r *Registry) Lookup(t AssetType) (StoreEntry, bool) {
	if r == nil {
		return StoreEntry{}, false
	}
	r.mu.RLock()
	entry, ok := r.entries[t]
	r.mu.RUnlock()
	if !ok {
		return StoreEntry{}, false
	}
	return entry.clone(), true
}

// Unregister drops the entries for types and reports how many were removed.
func (r *Registry) Unregister(types ...AssetType) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, t := range types {
		if _, ok := r.entries[t]; ok {
			delete(r.entries, t)
			removed++
		}
	}
	return removed
}

// Len returns the number of asset types with a registered entry.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Types returns the registered asset types sorted alphabetically.
func (r *Registry) Types() []AssetType {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]AssetType, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

package importer

import (
	"sync"

	"github.com/Eddieg26/gob/pkg/asset"
)

type storeEntry struct {
	value any
	meta  asset.ArtifactMeta
}

// Store holds the already-loaded dependency assets available to a
// processor while it runs, type-erased behind `any` and keyed by id so a
// processor can fetch a concrete dependency type back out by id (see
// GetAsset).
type Store struct {
	mu     sync.RWMutex
	assets map[asset.Id]storeEntry
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{assets: map[asset.Id]storeEntry{}}
}

func (s *Store) insert(id asset.Id, value any, meta asset.ArtifactMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[id] = storeEntry{value: value, meta: meta}
}

// InsertLoaded records a LoadedAsset under id, used by the import
// orchestrator to make a just-loaded dependency visible to a processor.
func (s *Store) InsertLoaded(id asset.Id, loaded *LoadedAsset) {
	s.insert(id, loaded.assetVal, loaded.Meta)
}

// Extend copies every entry of other into s.
func (s *Store) Extend(other *Store) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range other.assets {
		s.assets[id] = entry
	}
}

// Remove drops id from the store, returning what was stored if present.
func (s *Store) Remove(id asset.Id) (any, asset.ArtifactMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.assets[id]
	if ok {
		delete(s.assets, id)
	}
	return entry.value, entry.meta, ok
}

// Contains reports whether id has a loaded entry.
func (s *Store) Contains(id asset.Id) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.assets[id]
	return ok
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = map[asset.Id]storeEntry{}
}

// Get returns id's stored value as an A, ok=false if absent or of a
// different concrete type. Like GetAsset, this must be a free function.
func Get[A any](s *Store, id asset.Id) (A, bool) {
	var zero A
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.assets[id]
	if !ok {
		return zero, false
	}
	v, ok := entry.value.(A)
	if !ok {
		return zero, false
	}
	return v, true
}

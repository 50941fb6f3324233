// Package library maintains the bijective mapping between source paths and
// asset ids, persisted between runs so an asset keeps the same Id across
// re-imports.
package library

import (
	"sync"

	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/codec"
)

// Library is a bijective path<->id index. It is safe for concurrent use.
type Library struct {
	mu    sync.RWMutex
	ids   map[string]asset.Id
	paths map[asset.Id]string
}

// New returns an empty Library.
func New() *Library {
	return &Library{
		ids:   map[string]asset.Id{},
		paths: map[asset.Id]string{},
	}
}

// Insert records that path maps to id, returning whatever id and path it
// displaced (a path previously mapped to a different id, or an id previously
// mapped to a different path).
func (l *Library) Insert(id asset.Id, path string) (prevId *asset.Id, prevPath *string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.ids[path]; ok && existing != id {
		prevId = &existing
		delete(l.paths, existing)
	}
	if existing, ok := l.paths[id]; ok && existing != path {
		prevPath = &existing
		delete(l.ids, existing)
	}

	l.ids[path] = id
	l.paths[id] = path
	return
}

// Remove drops both directions of the mapping for id, if present.
func (l *Library) Remove(id asset.Id) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if path, ok := l.paths[id]; ok {
		delete(l.ids, path)
		delete(l.paths, id)
	}
}

// IdPath returns the path id was last inserted with.
func (l *Library) IdPath(id asset.Id) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	path, ok := l.paths[id]
	return path, ok
}

// PathId returns the id currently registered for path.
func (l *Library) PathId(path string) (asset.Id, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.ids[path]
	return id, ok
}

// Len returns the number of entries in the library.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

var (
	u64Codec   = codec.Uint64{}
	stringCdec = codec.String{}
)

// Encode serializes the library as
// `u64 count || repeat(u64 path_len || path_bytes || u64 id)`.
func (l *Library) Encode() []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := u64Codec.Encode(uint64(len(l.paths)))
	for id, path := range l.paths {
		out = append(out, stringCdec.Encode(path)...)
		out = append(out, u64Codec.Encode(uint64(id))...)
	}
	return out
}

// Decode rebuilds a Library from bytes written by Encode.
func Decode(b []byte) (*Library, bool) {
	count, n, ok := u64Codec.Decode(b)
	if !ok {
		return nil, false
	}

	lib := New()
	for i := uint64(0); i < count; i++ {
		path, c, ok := stringCdec.Decode(b[n:])
		if !ok {
			return nil, false
		}
		n += c

		rawId, c, ok := u64Codec.Decode(b[n:])
		if !ok {
			return nil, false
		}
		n += c

		lib.Insert(asset.Id(rawId), path)
	}
	return lib, true
}

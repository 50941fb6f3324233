// Package assetdb ties the path/id library together with the importer
// registry behind a single read-biased lock: reads vastly outnumber the
// registration/mutation calls that only happen at startup.
package assetdb

import (
	"sync"

	"github.com/Eddieg26/gob/pkg/importer"
	"github.com/Eddieg26/gob/pkg/library"
)

// Database bundles the library and importer registry the import
// orchestrator needs. Its lock guards only which library and registry it
// holds: Library and Importers take the read lock, SetLibrary takes the
// write lock. Registering importers and inserting into the library go
// through those types' own locks, not this one.
type Database struct {
	mu        sync.RWMutex
	library   *library.Library
	importers *importer.Importers
}

// New builds a Database around an existing library and importer registry.
func New(lib *library.Library, importers *importer.Importers) *Database {
	return &Database{library: lib, importers: importers}
}

// Library returns the path/id index. Callers that only read from it (the
// overwhelming majority) should treat the returned pointer as read-only;
// Library itself is independently synchronized for its own mutations.
func (d *Database) Library() *library.Library {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.library
}

// Importers returns the importer registry.
func (d *Database) Importers() *importer.Importers {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.importers
}

// SetLibrary atomically swaps in a new library, used when reloading
// .cache/assets.lib from disk.
func (d *Database) SetLibrary(lib *library.Library) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.library = lib
}

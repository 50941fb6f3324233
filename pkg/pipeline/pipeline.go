// Package pipeline implements the import orchestrator: the per-path import
// pipeline, the chunked batch driver, and the reverse-dependency fixed-point
// loop that re-imports dependents until the graph stabilizes.
package pipeline

import (
	"path/filepath"

	"github.com/Eddieg26/gob/internal/logging"
	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/assetdb"
	"github.com/Eddieg26/gob/pkg/assetio"
	"github.com/Eddieg26/gob/pkg/codec"
	gobErrors "github.com/Eddieg26/gob/pkg/errors"
	"github.com/Eddieg26/gob/pkg/importer"
	"github.com/Eddieg26/gob/pkg/workpool"
)

// DefaultChunkSize is the number of source paths imported per batch before
// reverse-dependency edges are flushed to disk.
const DefaultChunkSize = 250

// DefaultWorkers is how many paths within a single chunk are imported
// concurrently when the caller doesn't specify a worker count.
const DefaultWorkers = 4

type assetIdCodec struct{}

func (assetIdCodec) Encode(v asset.Id) []byte { return (codec.Uint64{}).Encode(uint64(v)) }
func (assetIdCodec) Decode(b []byte) (asset.Id, int, bool) {
	v, n, ok := (codec.Uint64{}).Decode(b)
	return asset.Id(v), n, ok
}

var idSetCodec = codec.Set[asset.Id]{Item: assetIdCodec{}}

// dependentUpdates accumulates the edges a single chunk's worth of saves
// added or removed against one dependency id.
type dependentUpdates struct {
	added   map[asset.Id]struct{}
	removed map[asset.Id]struct{}
}

func newDependentUpdates() *dependentUpdates {
	return &dependentUpdates{added: map[asset.Id]struct{}{}, removed: map[asset.Id]struct{}{}}
}

// importAsset runs the full import/process/save sequence for one source
// path. It returns an *importer.ImportError (never a plain error) so the
// caller can keep any previous-artifact context the failure carries.
func importAsset(path string, fs *assetio.AssetFS, db *assetdb.Database, store *importer.Store) (*importer.SavedAsset, *importer.ImportError) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, importer.NewImportError(path, asset.Id(0),
			gobErrors.New(gobErrors.CodeNoExtension, "source path has no extension"))
	}

	found, ok := db.Importers().ImporterByExt(ext)
	if !ok {
		return nil, importer.NewImportError(path, asset.Id(0),
			gobErrors.Newf(gobErrors.CodeNoImporter, "no importer registered for extension %q", ext))
	}

	imported, ierr := found.Import(fs, path)
	if ierr != nil {
		return nil, ierr
	}

	if found.HasProcessor() {
		loadImportDependencies(imported.Artifact.Dependencies, fs, db, store)
		if ierr := found.Process(path, imported, store); ierr != nil {
			return nil, ierr
		}
	}

	return found.Save(fs, path, imported)
}

// loadImportDependencies loads any of ids not already present in store from
// their cached artifacts, skipping ids with no cached artifact or no
// registered importer for the cached type. Every id in ids is considered,
// regardless of map iteration order, since which dependency happens to
// already be loaded has no bearing on whether the rest should be (see
// DESIGN.md).
func loadImportDependencies(ids map[asset.Id]struct{}, fs *assetio.AssetFS, db *assetdb.Database, store *importer.Store) {
	for id := range ids {
		if store.Contains(id) {
			continue
		}

		artifact, err := fs.LoadArtifact(id)
		if err != nil {
			continue
		}

		found, ok := db.Importers().Importer(artifact.Meta.Type)
		if !ok {
			continue
		}

		loaded, err := found.Load(artifact)
		if err != nil {
			continue
		}
		store.InsertLoaded(id, loaded)
	}
}

// importAssets imports a single chunk of paths, flushes the reverse-
// dependency updates those imports produced, and returns the ids of assets
// that must be re-imported next: the existing dependents of every asset
// this chunk just saved.
//
// Propagation seeds from each saved asset's own entry in the on-disk
// dependents index, not from edges newly declared during this call. Seeding
// only from edges declared this call would mean an id only carries forward
// into the next round if whatever depends on it happens to be imported in
// the very same chunk — re-importing a single changed leaf with no
// dependents imported alongside it would then never reach the assets that
// already depend on it. The on-disk dependents index is the transpose of
// the forward edges recorded across every artifact's metadata, so it
// already has the answer regardless of what changed in this call; this
// function re-reads it for every id a chunk just saved and feeds that into
// the next round, while still folding added/removed edges into the index
// per chunk exactly as before (see DESIGN.md).
func importAssets(paths []string, fs *assetio.AssetFS, db *assetdb.Database, logger logging.Logger, workers int) map[asset.Id]struct{} {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	store := importer.NewStore()

	// Each path's import/process/save runs as its own task on a scoped
	// worker pool. Results land in disjoint slice slots so the pool stage
	// itself needs no locking; the bookkeeping below that folds results
	// into updates/savedIds runs single-threaded afterward.
	type result struct {
		path  string
		saved *importer.SavedAsset
		ierr  *importer.ImportError
	}
	results := make([]result, len(paths))
	pool := workpool.NewScopedPool(workers)
	for i, path := range paths {
		i, path := i, path
		pool.Spawn(func() {
			saved, ierr := importAsset(path, fs, db, store)
			results[i] = result{path: path, saved: saved, ierr: ierr}
		})
	}
	pool.Run()

	updates := map[asset.Id]*dependentUpdates{}
	var savedIds []asset.Id

	importLogger := logging.WithStage(logger, "import")
	for _, r := range results {
		if r.ierr != nil {
			importLogger.Warn("import failed", "path", r.path, "error", r.ierr.Error())
			continue
		}
		saved := r.saved

		db.Library().Insert(saved.Meta.Id, r.path)
		store.InsertLoaded(saved.Meta.Id, saved.AsLoaded())
		savedIds = append(savedIds, saved.Meta.Id)

		for id := range saved.Meta.Dependencies {
			u, ok := updates[id]
			if !ok {
				u = newDependentUpdates()
				updates[id] = u
			}
			u.added[saved.Meta.Id] = struct{}{}
		}
		for id := range saved.RemovedDependencies {
			u, ok := updates[id]
			if !ok {
				u = newDependentUpdates()
				updates[id] = u
			}
			u.removed[saved.Meta.Id] = struct{}{}
		}
	}

	propagateLogger := logging.WithStage(logger, "propagate")
	for id, u := range updates {
		if err := updateDependents(id, fs, u); err != nil {
			propagateLogger.Error("dependents index update failed", "id", id.String(), "error", err.Error())
		}
	}

	dependents := map[asset.Id]struct{}{}
	for _, id := range savedIds {
		depIds, err := readDependents(fs, id)
		if err != nil {
			propagateLogger.Error("dependents index read failed", "id", id.String(), "error", err.Error())
			continue
		}
		for d := range depIds {
			dependents[d] = struct{}{}
		}
	}
	return dependents
}

// chunkedImport splits paths into DefaultChunkSize-sized (or chunkSize, if
// positive) batches and imports each in turn, running up to workers (or
// DefaultWorkers, if non-positive) imports concurrently within each chunk.
func chunkedImport(paths []string, fs *assetio.AssetFS, db *assetdb.Database, logger logging.Logger, chunkSize int, workers int) map[asset.Id]struct{} {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	dependents := map[asset.Id]struct{}{}
	for i := 0; i < len(paths); i += chunkSize {
		end := i + chunkSize
		if end > len(paths) {
			end = len(paths)
		}
		for id := range importAssets(paths[i:end], fs, db, logger, workers) {
			dependents[id] = struct{}{}
		}
	}
	return dependents
}

// FullImport imports paths and then repeatedly re-imports the recorded
// dependents of every asset the previous round saved, stopping once a round
// saves no asset that has any dependents on disk. workers bounds
// how many paths within a single chunk import concurrently; non-positive
// falls back to DefaultWorkers.
func FullImport(paths []string, fs *assetio.AssetFS, db *assetdb.Database, logger logging.Logger, chunkSize int, workers int) {
	dependents := chunkedImport(paths, fs, db, logger, chunkSize, workers)

	for len(dependents) > 0 {
		var next []string
		for id := range dependents {
			if path, ok := db.Library().IdPath(id); ok {
				next = append(next, path)
			}
		}
		dependents = chunkedImport(next, fs, db, logger, chunkSize, workers)
	}
}

// readDependents loads the set of ids that currently depend on id, treating
// a missing index file as an empty set. A decode failure on an *existing*
// dependents file is a hard error here (the caller logs it) rather than
// treated as an empty set — a corrupted index should surface, not be paved
// over.
func readDependents(fs *assetio.AssetFS, id asset.Id) (map[asset.Id]struct{}, error) {
	path := fs.Layout.DependentsPath(id)

	data, err := fs.Read(path)
	switch {
	case err == nil:
		decoded, n, ok := idSetCodec.Decode(data)
		if !ok || n != len(data) {
			return nil, gobErrors.Newf(gobErrors.CodeInvalidData, "corrupt dependents index for %s", id)
		}
		return decoded, nil
	case gobErrors.Is(err, gobErrors.CodeNotFound):
		return map[asset.Id]struct{}{}, nil
	default:
		return nil, err
	}
}

// updateDependents folds updates into the on-disk reverse-dependency index
// for id, writing the result back or removing the file entirely once it is
// empty.
func updateDependents(id asset.Id, fs *assetio.AssetFS, updates *dependentUpdates) error {
	path := fs.Layout.DependentsPath(id)

	dependents, err := readDependents(fs, id)
	if err != nil {
		return err
	}

	for added := range updates.added {
		dependents[added] = struct{}{}
	}
	for removed := range updates.removed {
		delete(dependents, removed)
	}

	if len(dependents) > 0 {
		return fs.Write(path, idSetCodec.Encode(dependents))
	}

	if err := fs.Remove(path); err != nil && !gobErrors.Is(err, gobErrors.CodeNotFound) {
		return err
	}
	return nil
}

package importer

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/assetio"
	gobErrors "github.com/Eddieg26/gob/pkg/errors"
)

var extFold = cases.Lower(language.Und)

// normalizeExt folds an extension to lowercase with Unicode-correct rules,
// so ".TXT" and ".txt" resolve to the same registered importer. strings.
// ToLower would do for ASCII extensions, but x/text/cases is the idiomatic
// way this corpus does locale-aware casing, so we use it here too.
func normalizeExt(ext string) string {
	return extFold.String(ext)
}

// ErasedImporter is the type-erased import/process/save/load quartet for a
// single registered asset type. Its fields are function values closing over
// the concrete A/S type parameters fixed at Register time, so a concrete
// Importer/Saver (and optionally a Processor) is closed over once here
// instead of needing a type switch on every call.
type ErasedImporter struct {
	importFn  func(fs *assetio.AssetFS, path string) (*ImportedAsset, *ImportError)
	processFn func(path string, imported *ImportedAsset, store *Store) *ImportError
	saveFn    func(fs *assetio.AssetFS, path string, imported *ImportedAsset) (*SavedAsset, *ImportError)
	loadFn    func(artifact asset.Artifact) (*LoadedAsset, error)
}

// HasProcessor reports whether a Processor was registered for this type.
func (e *ErasedImporter) HasProcessor() bool { return e.processFn != nil }

// Import runs the import stage: load-or-default sidecar, read source
// bytes, run the typed Import, compute checksum/mtime, build ArtifactMeta.
func (e *ErasedImporter) Import(fs *assetio.AssetFS, path string) (*ImportedAsset, *ImportError) {
	return e.importFn(fs, path)
}

// Process runs the process stage, if one was registered; returns nil
// immediately otherwise.
func (e *ErasedImporter) Process(path string, imported *ImportedAsset, store *Store) *ImportError {
	if e.processFn == nil {
		return nil
	}
	return e.processFn(path, imported, store)
}

// Save runs the save stage: serialize payload, write the artifact file,
// diff against the previous on-disk meta for removed dependency edges.
func (e *ErasedImporter) Save(fs *assetio.AssetFS, path string, imported *ImportedAsset) (*SavedAsset, *ImportError) {
	return e.saveFn(fs, path, imported)
}

// Load deserializes an on-disk Artifact back into a LoadedAsset.
func (e *ErasedImporter) Load(artifact asset.Artifact) (*LoadedAsset, error) {
	return e.loadFn(artifact)
}

// Importers is the registry of ErasedImporter entries, keyed both by asset
// Type and by the file extensions their Importer claims.
type Importers struct {
	mu        sync.RWMutex
	importers map[asset.Type]*ErasedImporter
	exts      map[string]asset.Type
}

// NewImporters returns an empty registry.
func NewImporters() *Importers {
	return &Importers{
		importers: map[asset.Type]*ErasedImporter{},
		exts:      map[string]asset.Type{},
	}
}

// Importer looks up an ErasedImporter by asset Type.
func (r *Importers) Importer(ty asset.Type) (*ErasedImporter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.importers[ty]
	return e, ok
}

// ImporterByExt looks up an ErasedImporter by source file extension
// (case-insensitive, e.g. ".txt" or ".TXT").
func (r *Importers) ImporterByExt(ext string) (*ErasedImporter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ty, ok := r.exts[normalizeExt(ext)]
	if !ok {
		return nil, false
	}
	e, ok := r.importers[ty]
	return e, ok
}

// Register builds the erased import/save/load trio for A and indexes it by
// type and by every extension imp.Extensions() claims. defaultSettings
// supplies the settings value used when no sidecar exists yet or the
// existing one fails to decode, since Go generics have no zero-value
// constructor bound to call instead.
//
// Register cannot be a method with its own type parameters (Go forbids
// generic methods), so it takes the registry as its first argument.
func Register[A any, S asset.Settings](reg *Importers, imp Importer[A, S], saver Saver[A, S], defaultSettings func() S) {
	ty := asset.TypeOf[A]()

	entry := &ErasedImporter{
		importFn: func(fs *assetio.AssetFS, path string) (*ImportedAsset, *ImportError) {
			meta, err := assetio.LoadMetadata[S](fs, path)
			if err != nil {
				meta = asset.NewMetadata(defaultSettings())
			}

			metaBytes, err := assetio.SaveMetadata(fs, path, meta)
			if err != nil {
				return nil, newImportError(path, meta.Id, err)
			}

			data, err := fs.Read(path)
			if err != nil {
				return nil, newImportError(path, meta.Id, err)
			}

			ctx := newLoadContext(path, data, meta)
			a, err := imp.Import(ctx)
			if err != nil {
				return nil, newImportError(path, meta.Id, gobErrors.Wrap(gobErrors.CodeImporterError, err, "import failed"))
			}
			deps := ctx.finish()

			modified, _ := assetio.ModifiedSecs(path)
			checksum := assetio.CalculateChecksum(data, metaBytes)

			artifact := asset.NewArtifactMeta(meta.Id, ty, checksum, modified)
			artifact.Dependencies = deps

			return newImportedAsset(a, meta, artifact), nil
		},
		saveFn: func(fs *assetio.AssetFS, path string, imported *ImportedAsset) (*SavedAsset, *ImportError) {
			prevMeta, prevErr := fs.LoadArtifactMeta(imported.Artifact.Id)
			var prevPtr *asset.ArtifactMeta
			if prevErr == nil {
				prevPtr = &prevMeta
			}

			a, _ := ImportedAssetValue[A](imported)
			meta, _ := ImportedAssetMetadata[S](imported)

			payload := saver.Save(a, meta)
			artifact := asset.Artifact{Meta: imported.Artifact, Payload: payload}

			if err := fs.SaveArtifact(artifact); err != nil {
				return nil, newImportError(path, imported.Artifact.Id, err).WithOptionalArtifact(prevPtr)
			}

			removed := map[asset.Id]struct{}{}
			if prevPtr != nil {
				removed = imported.Artifact.RemovedDependencies(*prevPtr)
			}

			return newSavedAsset(a, imported.Artifact, prevPtr, removed), nil
		},
		loadFn: func(artifact asset.Artifact) (*LoadedAsset, error) {
			a := saver.Load(artifact.Payload)
			return newLoadedAsset(a, artifact.Meta), nil
		},
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.importers[ty] = entry
	for _, ext := range imp.Extensions() {
		reg.exts[normalizeExt(ext)] = ty
	}
}

// SetProcessor attaches a Processor to the already-registered importer for
// A. It is a no-op if A was never registered.
func SetProcessor[A any, S asset.Settings](reg *Importers, proc Processor[A, S]) {
	ty := asset.TypeOf[A]()

	reg.mu.Lock()
	entry, ok := reg.importers[ty]
	reg.mu.Unlock()
	if !ok {
		return
	}

	entry.processFn = func(path string, imported *ImportedAsset, store *Store) *ImportError {
		a, _ := ImportedAssetValue[A](imported)
		meta, _ := ImportedAssetMetadata[S](imported)

		ctx := newProcessContext(store, meta, imported.Artifact.Dependencies)
		if err := proc.Process(&a, ctx); err != nil {
			return newImportError(path, imported.Artifact.Id, gobErrors.Wrap(gobErrors.CodeProcessorError, err, "process failed"))
		}
		imported.assetVal = a
		return nil
	}
}

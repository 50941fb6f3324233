package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddieg26/gob/internal/logging"
	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/assetdb"
	"github.com/Eddieg26/gob/pkg/assetio"
	"github.com/Eddieg26/gob/pkg/importer"
	"github.com/Eddieg26/gob/pkg/library"
)

type textAsset struct{ Body string }
type textSettings struct{}

type textImporter struct{}

func (textImporter) Extensions() []string { return []string{".txt"} }
func (textImporter) Import(ctx *importer.LoadContext[textSettings]) (textAsset, error) {
	return textAsset{Body: string(ctx.Bytes())}, nil
}

type textSaver struct{}

func (textSaver) Save(a textAsset, _ asset.Metadata[textSettings]) []byte { return []byte(a.Body) }
func (textSaver) Load(b []byte) textAsset                                { return textAsset{Body: string(b)} }

type refAsset struct{ Body string }
type refSettings struct {
	DependsOn string `toml:"depends_on"`
}

type refImporter struct{ lib *library.Library }

func (refImporter) Extensions() []string { return []string{".ref"} }
func (r refImporter) Import(ctx *importer.LoadContext[refSettings]) (refAsset, error) {
	if dep := ctx.Settings().DependsOn; dep != "" {
		if id, ok := r.lib.PathId(dep); ok {
			ctx.AddDependency(id)
		}
	}
	return refAsset{Body: string(ctx.Bytes())}, nil
}

type refSaver struct{}

func (refSaver) Save(a refAsset, _ asset.Metadata[refSettings]) []byte { return []byte(a.Body) }
func (refSaver) Load(b []byte) refAsset                                { return refAsset{Body: string(b)} }

// appendDepProcessor appends the body of the dependency named by
// DependsOn to the asset's own body, exercising importer.GetAsset
// against a dependency loaded from cache.
type appendDepProcessor struct{ lib *library.Library }

func (p appendDepProcessor) Process(a *refAsset, ctx *importer.ProcessContext[refSettings]) error {
	depPath := ctx.Metadata().Settings.DependsOn
	if depPath == "" {
		return nil
	}
	id, ok := p.lib.PathId(depPath)
	if !ok {
		return nil
	}
	if dep, ok := importer.GetAsset[textAsset](ctx, id); ok {
		a.Body += ":" + dep.Body
	}
	return nil
}

func newFixture(t *testing.T) (*assetio.AssetFS, *assetdb.Database, logging.Logger) {
	t.Helper()
	dir := t.TempDir()
	layout := asset.NewLayout(dir)
	afs := assetio.New(layout, assetio.LocalFileSystem{})
	require.NoError(t, afs.CreateDir(layout.Assets))
	require.NoError(t, afs.CreateDir(layout.ArtifactsDir()))
	require.NoError(t, afs.CreateDir(layout.DependentsDir()))

	lib := library.New()
	importers := importer.NewImporters()
	importer.Register[textAsset, textSettings](importers, textImporter{}, textSaver{}, func() textSettings { return textSettings{} })

	db := assetdb.New(lib, importers)
	return afs, db, logging.NewBasic()
}

func TestDependentPropagatesOnReimport(t *testing.T) {
	afs, db, logger := newFixture(t)
	lib := db.Library()

	importer.Register[refAsset, refSettings](db.Importers(), refImporter{lib: lib}, refSaver{}, func() refSettings { return refSettings{} })
	importer.SetProcessor[refAsset, refSettings](db.Importers(), appendDepProcessor{lib: lib})

	depPath := filepath.Join(afs.Layout.Assets, "dep.txt")
	require.NoError(t, afs.Write(depPath, []byte("base")))
	refPath := filepath.Join(afs.Layout.Assets, "a.ref")
	require.NoError(t, afs.Write(refPath, []byte("ref body")))

	meta := asset.NewMetadata(refSettings{DependsOn: depPath})
	_, err := assetio.SaveMetadata(afs, refPath, meta)
	require.NoError(t, err)

	// Import depPath and refPath in separate batches: peer imports within a
	// single batch have no ordering guarantee, so a batch containing both a
	// path and something that depends on it is not guaranteed to resolve
	// that edge on the same pass.
	FullImport([]string{depPath}, afs, db, logger, DefaultChunkSize, DefaultWorkers)
	FullImport([]string{refPath}, afs, db, logger, DefaultChunkSize, DefaultWorkers)

	refId, ok := lib.PathId(refPath)
	require.True(t, ok)
	depId, ok := lib.PathId(depPath)
	require.True(t, ok)

	refMeta, err := afs.LoadArtifactMeta(refId)
	require.NoError(t, err)
	assert.Contains(t, refMeta.Dependencies, depId)

	_, err = afs.System.Read(afs.Layout.DependentsPath(depId))
	assert.NoError(t, err, "dep.txt should now have a dependents entry recording a.ref")

	artifact, err := afs.LoadArtifact(refId)
	require.NoError(t, err)
	assert.Equal(t, "ref body:base", string(artifact.Payload))

	// Re-importing dep.txt with new content should trigger a's processor to
	// see the updated value on the next FullImport.
	require.NoError(t, afs.Write(depPath, []byte("changed")))
	FullImport([]string{depPath}, afs, db, logger, DefaultChunkSize, DefaultWorkers)

	artifact, err = afs.LoadArtifact(refId)
	require.NoError(t, err)
	assert.Equal(t, "ref body:changed", string(artifact.Payload))
}

func TestFreshImportSingleFile(t *testing.T) {
	afs, db, logger := newFixture(t)
	path := filepath.Join(afs.Layout.Assets, "a.txt")
	require.NoError(t, afs.Write(path, []byte("hello")))

	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)

	id, ok := db.Library().PathId(path)
	require.True(t, ok)

	meta, err := afs.LoadArtifactMeta(id)
	require.NoError(t, err)
	assert.Empty(t, meta.Dependencies)

	_, err = afs.System.Read(afs.Layout.DependentsPath(id))
	assert.Error(t, err, "no dependents file should exist for an asset nothing depends on")
}

func TestUnknownExtensionRecordsErrorAndWritesNothing(t *testing.T) {
	afs, db, logger := newFixture(t)
	path := filepath.Join(afs.Layout.Assets, "x.unknown")
	require.NoError(t, afs.Write(path, []byte("???")))

	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)

	_, ok := db.Library().PathId(path)
	assert.False(t, ok)

	_, err := afs.System.Read(afs.Layout.MetaPath(path))
	assert.Error(t, err, "no sidecar should be written for a source with no importer")
}

func TestReimportUnchangedFileKeepsSameId(t *testing.T) {
	afs, db, logger := newFixture(t)
	path := filepath.Join(afs.Layout.Assets, "a.txt")
	require.NoError(t, afs.Write(path, []byte("hello")))

	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)
	id1, _ := db.Library().PathId(path)

	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)
	id2, _ := db.Library().PathId(path)

	assert.Equal(t, id1, id2)
}

func TestCorruptArtifactHeaderRecoversOnReimport(t *testing.T) {
	afs, db, logger := newFixture(t)
	path := filepath.Join(afs.Layout.Assets, "a.txt")
	require.NoError(t, afs.Write(path, []byte("hello")))
	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)

	id, _ := db.Library().PathId(path)
	artifactPath := afs.Layout.ArtifactPath(id)
	data, err := afs.System.Read(artifactPath)
	require.NoError(t, err)
	for i := 0; i < 8 && i < len(data); i++ {
		data[i] = 0
	}
	require.NoError(t, afs.System.Write(artifactPath, data))

	_, err = afs.LoadArtifactMeta(id)
	assert.Error(t, err)

	FullImport([]string{path}, afs, db, logger, DefaultChunkSize, DefaultWorkers)
	meta, err := afs.LoadArtifactMeta(id)
	require.NoError(t, err)
	assert.Equal(t, id, meta.Id)
}

func TestChunkSizeSplitsLargeBatches(t *testing.T) {
	afs, db, logger := newFixture(t)
	var paths []string
	for i := 0; i < 5; i++ {
		path := filepath.Join(afs.Layout.Assets, string(rune('a'+i))+".txt")
		require.NoError(t, afs.Write(path, []byte("x")))
		paths = append(paths, path)
	}

	FullImport(paths, afs, db, logger, 2, DefaultWorkers)

	for _, p := range paths {
		_, ok := db.Library().PathId(p)
		assert.True(t, ok)
	}
}

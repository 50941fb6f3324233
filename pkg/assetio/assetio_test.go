package assetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddieg26/gob/pkg/asset"
)

type demoSettings struct {
	Encoding string `toml:"encoding"`
}

func TestLocalFileSystemReadWriteRemove(t *testing.T) {
	dir := t.TempDir()
	fs := LocalFileSystem{}
	path := filepath.Join(dir, "a.txt")

	require.NoError(t, fs.Write(path, []byte("hello")))

	got, err := fs.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	s, err := fs.ReadToString(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	require.NoError(t, fs.Remove(path))
	_, err = fs.Read(path)
	assert.Error(t, err)
}

func TestLocalFileSystemNotFound(t *testing.T) {
	fs := LocalFileSystem{}
	_, err := fs.Read(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestLocalFileSystemReadDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	fs := LocalFileSystem{}
	require.NoError(t, fs.CreateDir(filepath.Join(dir, "sub")))
	require.NoError(t, fs.Write(filepath.Join(dir, "a.txt"), []byte("a")))
	require.NoError(t, fs.Write(filepath.Join(dir, "sub", "b.txt"), []byte("b")))

	paths, err := fs.ReadDirectory(dir, true)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	layout := asset.NewLayout(dir)
	afs := New(layout, LocalFileSystem{})

	sourcePath := filepath.Join(layout.Assets, "a.txt")
	meta := asset.NewMetadata(demoSettings{Encoding: "utf8"})

	_, err := SaveMetadata(afs, sourcePath, meta)
	require.NoError(t, err)

	got, err := LoadMetadata[demoSettings](afs, sourcePath)
	require.NoError(t, err)
	assert.Equal(t, meta.Id, got.Id)
	assert.Equal(t, meta.Settings, got.Settings)
}

func TestArtifactRoundTripThroughAssetFS(t *testing.T) {
	dir := t.TempDir()
	layout := asset.NewLayout(dir)
	afs := New(layout, LocalFileSystem{})
	require.NoError(t, afs.CreateDir(layout.ArtifactsDir()))

	meta := asset.NewArtifactMeta(asset.NewId(), asset.TypeOf[demoSettings](), 7, 100)
	a := asset.Artifact{Meta: meta, Payload: []byte("built bytes")}
	require.NoError(t, afs.SaveArtifact(a))

	gotMeta, err := afs.LoadArtifactMeta(meta.Id)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta)

	gotArtifact, err := afs.LoadArtifact(meta.Id)
	require.NoError(t, err)
	assert.Equal(t, a.Payload, gotArtifact.Payload)
}

func TestCalculateChecksumSensitiveToEitherInput(t *testing.T) {
	base := CalculateChecksum([]byte("source"), []byte("meta"))
	assert.NotEqual(t, base, CalculateChecksum([]byte("source2"), []byte("meta")))
	assert.NotEqual(t, base, CalculateChecksum([]byte("source"), []byte("meta2")))
	assert.Equal(t, base, CalculateChecksum([]byte("source"), []byte("meta")))
}

func TestModifiedSecs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, (LocalFileSystem{}).Write(path, []byte("x")))

	secs, err := ModifiedSecs(path)
	require.NoError(t, err)
	assert.Greater(t, secs, uint64(0))
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddieg26/gob/internal/logging"
	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/library"
)

func TestRunImportBuildsArtifactsAndPersistsLibrary(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewBasic()

	layout := asset.NewLayout(cfg.Root)
	require.NoError(t, os.MkdirAll(layout.Assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layout.Assets, "a.txt"), []byte("hello"), 0o644))

	require.NoError(t, runImport(cfg, logger))

	data, err := os.ReadFile(layout.LibraryPath())
	require.NoError(t, err)

	lib, ok := library.Decode(data)
	require.True(t, ok)
	assert.Equal(t, 1, lib.Len())

	id, ok := lib.PathId(filepath.Join(layout.Assets, "a.txt"))
	require.True(t, ok)

	payload, err := os.ReadFile(layout.ArtifactPath(id))
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestRunImportIsIdempotentAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewBasic()

	layout := asset.NewLayout(cfg.Root)
	require.NoError(t, os.MkdirAll(layout.Assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layout.Assets, "a.txt"), []byte("hello"), 0o644))

	require.NoError(t, runImport(cfg, logger))
	data1, err := os.ReadFile(layout.LibraryPath())
	require.NoError(t, err)

	require.NoError(t, runImport(cfg, logger))
	data2, err := os.ReadFile(layout.LibraryPath())
	require.NoError(t, err)

	lib1, _ := library.Decode(data1)
	lib2, _ := library.Decode(data2)
	id1, _ := lib1.PathId(filepath.Join(layout.Assets, "a.txt"))
	id2, _ := lib2.PathId(filepath.Join(layout.Assets, "a.txt"))
	assert.Equal(t, id1, id2)
}

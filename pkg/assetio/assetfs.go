package assetio

import (
	"bytes"
	"hash/crc32"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/codec"
	gobErrors "github.com/Eddieg26/gob/pkg/errors"
)

// AssetFS layers the sidecar-metadata, artifact-framing and checksum
// conventions the pipeline needs on top of a plain FileSystem.
type AssetFS struct {
	Layout asset.Layout
	System FileSystem
}

// New builds an AssetFS rooted at layout, backed by system.
func New(layout asset.Layout, system FileSystem) *AssetFS {
	return &AssetFS{Layout: layout, System: system}
}

func (fs *AssetFS) Read(path string) ([]byte, error)    { return fs.System.Read(path) }
func (fs *AssetFS) Write(path string, b []byte) error    { return fs.System.Write(path, b) }
func (fs *AssetFS) Remove(path string) error             { return fs.System.Remove(path) }
func (fs *AssetFS) Rename(old, new string) error         { return fs.System.Rename(old, new) }
func (fs *AssetFS) ReadDirectory(path string, recursive bool) ([]string, error) {
	return fs.System.ReadDirectory(path, recursive)
}
func (fs *AssetFS) CreateDir(path string) error { return fs.System.CreateDir(path) }

// LoadMetadata reads and decodes the `<path>.meta` TOML sidecar for path.
// Go forbids type parameters on methods, so this is a free function taking
// the AssetFS as its first argument.
func LoadMetadata[S asset.Settings](fs *AssetFS, path string) (asset.Metadata[S], error) {
	var meta asset.Metadata[S]
	content, err := fs.System.ReadToString(fs.Layout.MetaPath(path))
	if err != nil {
		return meta, err
	}
	if _, err := toml.Decode(content, &meta); err != nil {
		return meta, gobErrors.Wrapf(gobErrors.CodeInvalidData, err, "decode metadata for %s", path)
	}
	return meta, nil
}

// SaveMetadata TOML-encodes metadata and writes it to `<path>.meta`,
// returning the bytes written.
func SaveMetadata[S asset.Settings](fs *AssetFS, path string, metadata asset.Metadata[S]) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(metadata); err != nil {
		return nil, gobErrors.Wrapf(gobErrors.CodeInvalidData, err, "encode metadata for %s", path)
	}
	if err := fs.System.Write(fs.Layout.MetaPath(path), buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadArtifactMeta reads only the meta header of the artifact for id,
// without reading its (potentially large) payload.
func (fs *AssetFS) LoadArtifactMeta(id asset.Id) (asset.ArtifactMeta, error) {
	path := fs.Layout.ArtifactPath(id)
	r, err := fs.System.Reader(path)
	if err != nil {
		return asset.ArtifactMeta{}, err
	}
	defer r.Close()

	lenBuf := make([]byte, 8)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return asset.ArtifactMeta{}, gobErrors.Wrapf(gobErrors.CodeInvalidData, err, "read artifact meta length for %s", id)
	}
	metaLen, _, ok := (codec.Uint64{}).Decode(lenBuf)
	if !ok {
		return asset.ArtifactMeta{}, gobErrors.Newf(gobErrors.CodeInvalidData, "corrupt artifact header for %s", id)
	}

	metaBuf := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metaBuf); err != nil {
		return asset.ArtifactMeta{}, gobErrors.Wrapf(gobErrors.CodeInvalidData, err, "read artifact meta for %s", id)
	}

	meta, n, ok := asset.DecodeArtifactMeta(metaBuf)
	if !ok || n != len(metaBuf) {
		return asset.ArtifactMeta{}, gobErrors.Newf(gobErrors.CodeInvalidData, "could not decode artifact meta for %s", id)
	}
	return meta, nil
}

// LoadArtifact reads and decodes the full artifact (meta and payload) for id.
func (fs *AssetFS) LoadArtifact(id asset.Id) (asset.Artifact, error) {
	path := fs.Layout.ArtifactPath(id)
	data, err := fs.System.Read(path)
	if err != nil {
		return asset.Artifact{}, err
	}
	a, ok := asset.DecodeArtifact(data)
	if !ok {
		return asset.Artifact{}, gobErrors.Newf(gobErrors.CodeInvalidData, "could not decode artifact for %s", id)
	}
	return a, nil
}

// SaveArtifact writes an artifact's full encoded form to its artifact path.
func (fs *AssetFS) SaveArtifact(a asset.Artifact) error {
	return fs.System.Write(fs.Layout.ArtifactPath(a.Meta.Id), a.Encode())
}

// ModifiedSecs returns the source file's modification time as seconds since
// the Unix epoch, absolute rather than elapsed-since-some-reference, so it
// stays meaningful across process restarts (see DESIGN.md).
func ModifiedSecs(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, wrapIoErr(path, err)
	}
	return uint64(info.ModTime().Unix()), nil
}

// CalculateChecksum hashes source and metadata bytes together with CRC32,
// detecting a change to either the source bytes or the settings that
// produced the artifact.
func CalculateChecksum(source, metadata []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(source)
	h.Write(metadata)
	return h.Sum32()
}

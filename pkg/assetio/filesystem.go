// Package assetio provides the file-system facade the asset pipeline reads
// sources and writes artifacts through: a FileSystem abstraction (so tests
// and future backends can swap out the local disk) plus an AssetFS helper
// that layers sidecar metadata, artifact framing and checksums on top.
package assetio

import (
	"io"
	"os"
	"path/filepath"

	gobErrors "github.com/Eddieg26/gob/pkg/errors"
)

// FileSystem is the storage backend the pipeline is built against. Nothing
// in pkg/asset, pkg/importer or pkg/pipeline talks to os.* directly; they go
// through this interface instead, so a test or alternate backend can swap
// in without touching pipeline logic. The one exception is ModifiedSecs,
// which stats the source path on the OS filesystem rather than through a
// FileSystem.
type FileSystem interface {
	Read(path string) ([]byte, error)
	ReadToString(path string) (string, error)
	ReadExact(path string, buf []byte) error
	Reader(path string) (io.ReadCloser, error)
	Write(path string, data []byte) error
	Remove(path string) error
	Rename(old, new string) error
	ReadDirectory(path string, recursive bool) ([]string, error)
	CreateDir(path string) error
}

// LocalFileSystem implements FileSystem against the OS filesystem.
type LocalFileSystem struct{}

func (LocalFileSystem) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIoErr(path, err)
	}
	return data, nil
}

func (fs LocalFileSystem) ReadToString(path string) (string, error) {
	data, err := fs.Read(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (LocalFileSystem) ReadExact(path string, buf []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return wrapIoErr(path, err)
	}
	defer f.Close()
	if _, err := io.ReadFull(f, buf); err != nil {
		return wrapIoErr(path, err)
	}
	return nil
}

func (LocalFileSystem) Reader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIoErr(path, err)
	}
	return f, nil
}

func (LocalFileSystem) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapIoErr(path, err)
	}
	return nil
}

func (LocalFileSystem) Remove(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapIoErr(path, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return wrapIoErr(path, err)
	}
	return nil
}

func (LocalFileSystem) Rename(old, new string) error {
	if err := os.Rename(old, new); err != nil {
		return wrapIoErr(old, err)
	}
	return nil
}

func (fs LocalFileSystem) ReadDirectory(path string, recursive bool) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapIoErr(path, err)
	}
	var out []string
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if recursive {
				sub, err := fs.ReadDirectory(full, recursive)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}
			continue
		}
		out = append(out, full)
	}
	return out, nil
}

func (LocalFileSystem) CreateDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return wrapIoErr(path, err)
	}
	return nil
}

func wrapIoErr(path string, err error) error {
	if os.IsNotExist(err) {
		return gobErrors.Newf(gobErrors.CodeNotFound, "%s: not found", path)
	}
	return gobErrors.Wrapf(gobErrors.CodeIo, err, "%s", path)
}

package asset

import (
	"path/filepath"

	"github.com/Eddieg26/gob/internal/logging"
)

// Layout resolves the fixed set of project subpaths the pipeline reads from
// and writes to, rooted at a project directory: Assets/ for sources,
// Preferences/ for user-authored config, .cache/ for build outputs and
// .temp/ for the reverse-dependency index.
type Layout struct {
	Root        string
	Assets      string
	Preferences string
	Cache       string
	Temp        string
}

// NewLayout resolves a Layout rooted at root. It does not touch the
// filesystem; call EnsureDirs to create the subdirectories.
func NewLayout(root string) Layout {
	return Layout{
		Root:        root,
		Assets:      filepath.Join(root, "Assets"),
		Preferences: filepath.Join(root, "Preferences"),
		Cache:       filepath.Join(root, ".cache"),
		Temp:        filepath.Join(root, ".temp"),
	}
}

// ArtifactsDir is where built artifacts are stored, one file per asset id.
func (l Layout) ArtifactsDir() string {
	return filepath.Join(l.Cache, "artifacts")
}

// ArtifactPath returns the artifact file path for id.
func (l Layout) ArtifactPath(id Id) string {
	return filepath.Join(l.ArtifactsDir(), id.String())
}

// LibraryPath is the path→id index persisted between runs.
func (l Layout) LibraryPath() string {
	return filepath.Join(l.Cache, "assets.lib")
}

// DependentsDir holds one file per asset id listing the assets that depend
// on it, used to drive reverse-dependency propagation.
func (l Layout) DependentsDir() string {
	return filepath.Join(l.Temp, "dependents")
}

// DependentsPath returns the dependents-index file path for id.
func (l Layout) DependentsPath(id Id) string {
	return filepath.Join(l.DependentsDir(), id.String())
}

// MetaPath returns the sidecar metadata path for a source file path.
func (l Layout) MetaPath(sourcePath string) string {
	return sourcePath + ".meta"
}

// EnsureDirs creates every subdirectory the pipeline needs, logging each one
// at debug level whether or not it already existed. Idempotent, safe to call
// on every run.
func (l Layout) EnsureDirs(fs interface{ CreateDir(string) error }, logger logging.Logger) error {
	dirs := []string{l.Assets, l.Preferences, l.ArtifactsDir(), l.DependentsDir()}
	for _, dir := range dirs {
		if err := fs.CreateDir(dir); err != nil {
			return err
		}
		logger.Debug("ensured project directory", "path", dir)
	}
	return nil
}

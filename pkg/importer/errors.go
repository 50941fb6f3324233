package importer

import (
	"fmt"

	"github.com/Eddieg26/gob/pkg/asset"
)

// ImportError reports a failure at any stage of importing a single path.
// It optionally carries the artifact meta that existed before the failed
// attempt, so the orchestrator can keep reasoning about edges that are
// still recorded on disk even though this import failed.
type ImportError struct {
	Path     string
	Id       asset.Id
	Artifact *asset.ArtifactMeta
	Cause    error
}

func newImportError(path string, id asset.Id, cause error) *ImportError {
	return &ImportError{Path: path, Id: id, Cause: cause}
}

// NewImportError builds an ImportError, for use by callers outside this
// package (the import orchestrator) that need to report a failure before an
// ErasedImporter was even found — e.g. a missing extension or importer.
func NewImportError(path string, id asset.Id, cause error) *ImportError {
	return newImportError(path, id, cause)
}

// WithArtifact attaches a previous artifact meta to the error.
func (e *ImportError) WithArtifact(meta asset.ArtifactMeta) *ImportError {
	e.Artifact = &meta
	return e
}

// WithOptionalArtifact attaches meta if non-nil.
func (e *ImportError) WithOptionalArtifact(meta *asset.ArtifactMeta) *ImportError {
	e.Artifact = meta
	return e
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s (id=%s): %v", e.Path, e.Id, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Package importer implements the type-erased importer registry: the
// per-extension/per-type dispatch table that turns a source path into an
// in-memory asset, optionally processes it against its dependencies, and
// serializes it to an artifact.
package importer

import "github.com/Eddieg26/gob/pkg/asset"

// LoadContext is handed to an Importer's Import method: the raw source
// bytes, the sidecar metadata, and an accumulator for the asset ids the
// import declares itself dependent on.
type LoadContext[S asset.Settings] struct {
	path         string
	bytes        []byte
	metadata     asset.Metadata[S]
	dependencies map[asset.Id]struct{}
}

func newLoadContext[S asset.Settings](path string, data []byte, metadata asset.Metadata[S]) *LoadContext[S] {
	return &LoadContext[S]{path: path, bytes: data, metadata: metadata, dependencies: map[asset.Id]struct{}{}}
}

func (c *LoadContext[S]) Path() string                { return c.path }
func (c *LoadContext[S]) Bytes() []byte               { return c.bytes }
func (c *LoadContext[S]) Metadata() asset.Metadata[S] { return c.metadata }
func (c *LoadContext[S]) Settings() S                 { return c.metadata.Settings }

// AddDependency declares that the asset being imported depends on id.
func (c *LoadContext[S]) AddDependency(id asset.Id) {
	c.dependencies[id] = struct{}{}
}

func (c *LoadContext[S]) finish() map[asset.Id]struct{} {
	return c.dependencies
}

// ProcessContext is handed to a Processor's Process method: access to
// already-loaded dependency assets plus the sidecar metadata.
type ProcessContext[S asset.Settings] struct {
	store        *Store
	metadata     asset.Metadata[S]
	dependencies map[asset.Id]struct{}
}

func newProcessContext[S asset.Settings](store *Store, metadata asset.Metadata[S], dependencies map[asset.Id]struct{}) *ProcessContext[S] {
	return &ProcessContext[S]{store: store, metadata: metadata, dependencies: dependencies}
}

func (c *ProcessContext[S]) Metadata() asset.Metadata[S] { return c.metadata }

// GetAsset returns the dependency id as an A, provided id was declared as a
// dependency during import and a compatible asset for it is loaded in the
// store. Go disallows type parameters on methods, so this is a free
// function rather than a method on ProcessContext.
func GetAsset[A any, S asset.Settings](ctx *ProcessContext[S], id asset.Id) (A, bool) {
	var zero A
	if _, declared := ctx.dependencies[id]; !declared {
		return zero, false
	}
	return Get[A](ctx.store, id)
}

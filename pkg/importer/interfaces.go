package importer

import "github.com/Eddieg26/gob/pkg/asset"

// Importer turns source bytes into an in-memory asset of type A, declaring
// dependencies on ctx as it goes.
type Importer[A any, S asset.Settings] interface {
	Extensions() []string
	Import(ctx *LoadContext[S]) (A, error)
}

// Processor runs after import, when every dependency the importer declared
// has had a chance to load from cache. It mutates the asset in place.
type Processor[A any, S asset.Settings] interface {
	Process(a *A, ctx *ProcessContext[S]) error
}

// Saver serializes an asset to its artifact payload and back.
type Saver[A any, S asset.Settings] interface {
	Save(a A, metadata asset.Metadata[S]) []byte
	Load(payload []byte) A
}

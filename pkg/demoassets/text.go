// Package demoassets provides the two minimal asset types this repo ships
// so the pipeline is runnable and testable end to end: TextAsset, a plain
// dependency-free leaf, and ConfigAsset, a YAML-settings asset whose
// processor reads a declared dependency. Neither is part of the core
// contract (pkg/importer, pkg/pipeline stay importer-agnostic); they live
// here as runnable demo fixtures.
package demoassets

import (
	"github.com/Eddieg26/gob/pkg/asset"
	"github.com/Eddieg26/gob/pkg/importer"
)

// TextAsset holds the raw contents of a .txt source file verbatim.
type TextAsset struct {
	Body string
}

// TextSettings is empty: text assets take no importer-specific settings.
type TextSettings struct{}

// TextImporter imports .txt sources as-is, with no dependencies.
type TextImporter struct{}

func (TextImporter) Extensions() []string { return []string{".txt"} }

func (TextImporter) Import(ctx *importer.LoadContext[TextSettings]) (TextAsset, error) {
	return TextAsset{Body: string(ctx.Bytes())}, nil
}

// TextSaver serializes TextAsset to and from its artifact payload, which is
// just the body bytes.
type TextSaver struct{}

func (TextSaver) Save(a TextAsset, _ asset.Metadata[TextSettings]) []byte {
	return []byte(a.Body)
}

func (TextSaver) Load(b []byte) TextAsset {
	return TextAsset{Body: string(b)}
}

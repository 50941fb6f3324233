package importer

import "github.com/Eddieg26/gob/pkg/asset"

// ImportedAsset is the type-erased result of running an Importer: the asset
// value, its sidecar metadata, and the freshly built ArtifactMeta.
type ImportedAsset struct {
	assetVal any
	metaVal  any
	Artifact asset.ArtifactMeta
}

func newImportedAsset[A any, S asset.Settings](a A, metadata asset.Metadata[S], artifact asset.ArtifactMeta) *ImportedAsset {
	return &ImportedAsset{assetVal: a, metaVal: metadata, Artifact: artifact}
}

// ImportedAssetValue returns the imported asset as an A.
func ImportedAssetValue[A any](imported *ImportedAsset) (A, bool) {
	v, ok := imported.assetVal.(A)
	return v, ok
}

// ImportedAssetMetadata returns the imported asset's sidecar metadata as a
// Metadata[S].
func ImportedAssetMetadata[S asset.Settings](imported *ImportedAsset) (asset.Metadata[S], bool) {
	v, ok := imported.metaVal.(asset.Metadata[S])
	return v, ok
}

// LoadedAsset is a type-erased asset reconstructed from an on-disk artifact.
type LoadedAsset struct {
	assetVal any
	Meta     asset.ArtifactMeta
}

func newLoadedAsset[A any](a A, meta asset.ArtifactMeta) *LoadedAsset {
	return &LoadedAsset{assetVal: a, Meta: meta}
}

// LoadedAssetValue returns the loaded asset as an A.
func LoadedAssetValue[A any](loaded *LoadedAsset) (A, bool) {
	v, ok := loaded.assetVal.(A)
	return v, ok
}

// SavedAsset is the result of writing an ImportedAsset's artifact to disk.
type SavedAsset struct {
	Meta                 asset.ArtifactMeta
	PrevMeta             *asset.ArtifactMeta
	RemovedDependencies  map[asset.Id]struct{}
	assetVal             any
}

func newSavedAsset(assetVal any, meta asset.ArtifactMeta, prevMeta *asset.ArtifactMeta, removed map[asset.Id]struct{}) *SavedAsset {
	return &SavedAsset{Meta: meta, PrevMeta: prevMeta, RemovedDependencies: removed, assetVal: assetVal}
}

// SavedAssetValue returns the saved asset as an A.
func SavedAssetValue[A any](saved *SavedAsset) (A, bool) {
	v, ok := saved.assetVal.(A)
	return v, ok
}

// AsLoaded converts a just-saved asset into a LoadedAsset, letting the
// pipeline feed it straight into the Store without a round trip through the
// artifact file.
func (s *SavedAsset) AsLoaded() *LoadedAsset {
	return &LoadedAsset{assetVal: s.assetVal, Meta: s.Meta}
}

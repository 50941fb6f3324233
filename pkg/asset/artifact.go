package asset

import "github.com/Eddieg26/gob/pkg/codec"

var (
	u64Codec = codec.Uint64{}
	u32Codec = codec.Uint32{}
	idSet    = codec.Set[Id]{Item: idCodec{}}
)

// idCodec adapts Id to codec.Codec[Id] in terms of the raw uint64 codec.
type idCodec struct{}

func (idCodec) Encode(v Id) []byte {
	return u64Codec.Encode(uint64(v))
}

func (idCodec) Decode(b []byte) (Id, int, bool) {
	v, n, ok := u64Codec.Decode(b)
	return Id(v), n, ok
}

// ArtifactMeta describes a built artifact without its payload: which asset
// produced it, a checksum over the source bytes and metadata that produced
// it, when the source was last modified, and which other assets it depends
// on (used to drive reverse-dependency re-imports).
type ArtifactMeta struct {
	Id           Id
	Type         Type
	Checksum     uint32
	Modified     uint64 // seconds since the Unix epoch, absolute
	Dependencies map[Id]struct{}
}

// NewArtifactMeta builds an ArtifactMeta with no recorded dependencies.
func NewArtifactMeta(id Id, ty Type, checksum uint32, modified uint64) ArtifactMeta {
	return ArtifactMeta{Id: id, Type: ty, Checksum: checksum, Modified: modified, Dependencies: map[Id]struct{}{}}
}

// Encode serializes meta as
// `u64 id || u64 type || u32 checksum || u64 modified || set<id> deps`.
func (m ArtifactMeta) Encode() []byte {
	out := u64Codec.Encode(uint64(m.Id))
	out = append(out, u64Codec.Encode(uint64(m.Type))...)
	out = append(out, u32Codec.Encode(m.Checksum)...)
	out = append(out, u64Codec.Encode(m.Modified)...)
	out = append(out, idSet.Encode(m.Dependencies)...)
	return out
}

// DecodeArtifactMeta is the inverse of ArtifactMeta.Encode, returning the
// number of bytes consumed from the front of b.
func DecodeArtifactMeta(b []byte) (ArtifactMeta, int, bool) {
	var m ArtifactMeta
	var n int

	id, c, ok := u64Codec.Decode(b[n:])
	if !ok {
		return m, 0, false
	}
	n += c

	ty, c, ok := u64Codec.Decode(b[n:])
	if !ok {
		return m, 0, false
	}
	n += c

	checksum, c, ok := u32Codec.Decode(b[n:])
	if !ok {
		return m, 0, false
	}
	n += c

	modified, c, ok := u64Codec.Decode(b[n:])
	if !ok {
		return m, 0, false
	}
	n += c

	deps, c, ok := idSet.Decode(b[n:])
	if !ok {
		return m, 0, false
	}
	n += c

	m = ArtifactMeta{
		Id:           Id(id),
		Type:         Type(ty),
		Checksum:     checksum,
		Modified:     modified,
		Dependencies: deps,
	}
	return m, n, true
}

// RemovedDependencies returns the ids present in prev's dependency set but
// absent from m's, i.e. edges that no longer exist after a re-import.
func (m ArtifactMeta) RemovedDependencies(prev ArtifactMeta) map[Id]struct{} {
	removed := map[Id]struct{}{}
	for id := range prev.Dependencies {
		if _, ok := m.Dependencies[id]; !ok {
			removed[id] = struct{}{}
		}
	}
	return removed
}

// AddedDependencies returns the ids present in m's dependency set but absent
// from prev's, i.e. new edges introduced by a re-import.
func (m ArtifactMeta) AddedDependencies(prev ArtifactMeta) map[Id]struct{} {
	added := map[Id]struct{}{}
	for id := range m.Dependencies {
		if _, ok := prev.Dependencies[id]; !ok {
			added[id] = struct{}{}
		}
	}
	return added
}

// Artifact is a built asset's metadata plus its serialized payload, the unit
// persisted under .cache/artifacts/<id>.
type Artifact struct {
	Meta    ArtifactMeta
	Payload []byte
}

// Encode serializes the artifact file layout:
// `u64 meta_len || meta_bytes || payload`. The length prefix lets callers
// load just the meta without reading the (potentially large) payload.
func (a Artifact) Encode() []byte {
	meta := a.Meta.Encode()
	out := u64Codec.Encode(uint64(len(meta)))
	out = append(out, meta...)
	out = append(out, a.Payload...)
	return out
}

// DecodeArtifact is the inverse of Artifact.Encode.
func DecodeArtifact(b []byte) (Artifact, bool) {
	metaLen, n, ok := u64Codec.Decode(b)
	if !ok {
		return Artifact{}, false
	}
	end := n + int(metaLen)
	if end < n || end > len(b) {
		return Artifact{}, false
	}
	meta, consumed, ok := DecodeArtifactMeta(b[n:end])
	if !ok || consumed != int(metaLen) {
		return Artifact{}, false
	}
	return Artifact{Meta: meta, Payload: b[end:]}, true
}

// DecodeArtifactMetaHeader reads only the meta block from a full artifact
// byte slice (or from just the header bytes, if the caller already trimmed
// the payload off), without requiring the payload to be present.
func DecodeArtifactMetaHeader(b []byte) (ArtifactMeta, bool) {
	metaLen, n, ok := u64Codec.Decode(b)
	if !ok {
		return ArtifactMeta{}, false
	}
	end := n + int(metaLen)
	if end < n || end > len(b) {
		return ArtifactMeta{}, false
	}
	meta, consumed, ok := DecodeArtifactMeta(b[n:end])
	if !ok || consumed != int(metaLen) {
		return ArtifactMeta{}, false
	}
	return meta, true
}

package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdIsStableAndUnique(t *testing.T) {
	a := NewId()
	b := NewId()
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, a)
}

type textSettings struct {
	Encoding string `toml:"encoding"`
}

type otherSettings struct{}

func TestTypeOfIsStablePerType(t *testing.T) {
	a1 := TypeOf[textSettings]()
	a2 := TypeOf[textSettings]()
	b := TypeOf[otherSettings]()

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}

func TestArtifactMetaRoundTrip(t *testing.T) {
	m := NewArtifactMeta(NewId(), TypeOf[textSettings](), 0xdeadbeef, 1234567890)
	m.Dependencies[NewId()] = struct{}{}
	m.Dependencies[NewId()] = struct{}{}

	b := m.Encode()
	got, n, ok := DecodeArtifactMeta(b)
	require.True(t, ok)
	assert.Equal(t, len(b), n)
	assert.Equal(t, m, got)
}

func TestArtifactMetaDecodeTruncated(t *testing.T) {
	m := NewArtifactMeta(NewId(), TypeOf[textSettings](), 1, 2)
	b := m.Encode()
	_, _, ok := DecodeArtifactMeta(b[:len(b)-1])
	assert.False(t, ok)
}

func TestAddedAndRemovedDependencies(t *testing.T) {
	kept := NewId()
	removed := NewId()
	added := NewId()

	prev := NewArtifactMeta(NewId(), TypeOf[textSettings](), 0, 0)
	prev.Dependencies[kept] = struct{}{}
	prev.Dependencies[removed] = struct{}{}

	next := NewArtifactMeta(prev.Id, prev.Type, 0, 0)
	next.Dependencies[kept] = struct{}{}
	next.Dependencies[added] = struct{}{}

	gotAdded := next.AddedDependencies(prev)
	gotRemoved := next.RemovedDependencies(prev)

	assert.Equal(t, map[Id]struct{}{added: {}}, gotAdded)
	assert.Equal(t, map[Id]struct{}{removed: {}}, gotRemoved)
}

func TestArtifactRoundTrip(t *testing.T) {
	meta := NewArtifactMeta(NewId(), TypeOf[textSettings](), 42, 99)
	a := Artifact{Meta: meta, Payload: []byte("hello world")}

	b := a.Encode()
	got, ok := DecodeArtifact(b)
	require.True(t, ok)
	assert.Equal(t, a.Meta, got.Meta)
	assert.Equal(t, a.Payload, got.Payload)
}

func TestArtifactMetaHeaderReadWithoutPayload(t *testing.T) {
	meta := NewArtifactMeta(NewId(), TypeOf[textSettings](), 1, 2)
	a := Artifact{Meta: meta, Payload: []byte("a large payload we don't want to decode")}
	b := a.Encode()

	got, ok := DecodeArtifactMetaHeader(b)
	require.True(t, ok)
	assert.Equal(t, meta, got)
}

func TestNewMetadataAssignsFreshId(t *testing.T) {
	m1 := NewMetadata(textSettings{Encoding: "utf8"})
	m2 := NewMetadata(textSettings{Encoding: "utf8"})
	assert.NotEqual(t, m1.Id, m2.Id)
	assert.Equal(t, "utf8", m1.Settings.Encoding)
}

func TestLayoutPaths(t *testing.T) {
	l := NewLayout("/proj")
	assert.Equal(t, "/proj/Assets", l.Assets)
	assert.Equal(t, "/proj/.cache/artifacts", l.ArtifactsDir())
	assert.Equal(t, "/proj/.cache/assets.lib", l.LibraryPath())
	assert.Equal(t, "/proj/.temp/dependents", l.DependentsDir())
	assert.Equal(t, "Assets/a.txt.meta", l.MetaPath("Assets/a.txt"))

	id := NewId()
	assert.Equal(t, "/proj/.cache/artifacts/"+id.String(), l.ArtifactPath(id))
}

package asset

import (
	"hash/fnv"
	"reflect"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// Id uniquely identifies an asset within a project. It is derived by hashing
// a freshly minted ULID down to a uint64 with FNV-64a, giving a single
// machine word for use as a map key and in the byte codec. The hash does not
// keep the ULID's time ordering: Id values do not sort by creation time.
type Id uint64

// NewId mints a fresh, random Id.
func NewId() Id {
	id := ulid.Make()
	h := fnv.New64a()
	h.Write(id[:])
	return Id(h.Sum64())
}

func (id Id) String() string {
	return strconv.FormatUint(uint64(id), 16)
}

// Type identifies the concrete Go type an importer, processor or saver was
// registered for. Go has no value-level type identity comparable across
// packages, so Type hashes the type's fully qualified name instead. Two
// calls to TypeOf[A] for the same A always agree.
type Type uint64

// TypeOf returns the Type identifying A.
func TypeOf[A any]() Type {
	var zero A
	t := reflect.TypeOf(&zero).Elem()
	h := fnv.New64a()
	h.Write([]byte(t.PkgPath() + "." + t.Name()))
	return Type(h.Sum64())
}

func (t Type) String() string {
	return strconv.FormatUint(uint64(t), 16)
}

// Package codec implements the length-prefixed little-endian binary layout
// shared by artifact metadata, artifacts and the asset library index. Every
// encoding here obeys one law: decode(encode(x)) == x.
package codec

import "encoding/binary"

// Codec encodes a T to bytes and attempts to decode a T back out of a byte
// slice, reporting how many bytes it consumed.
type Codec[T any] interface {
	Encode(v T) []byte
	// Decode reads a single T from the front of b, returning the value, the
	// number of bytes consumed, and ok=false if b does not hold a complete,
	// well-formed encoding.
	Decode(b []byte) (v T, n int, ok bool)
}

// Uint64 encodes a uint64 as 8 little-endian bytes.
type Uint64 struct{}

func (Uint64) Encode(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func (Uint64) Decode(b []byte) (uint64, int, bool) {
	if len(b) < 8 {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint64(b[:8]), 8, true
}

// Uint32 encodes a uint32 as 4 little-endian bytes.
type Uint32 struct{}

func (Uint32) Encode(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func (Uint32) Decode(b []byte) (uint32, int, bool) {
	if len(b) < 4 {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(b[:4]), 4, true
}

// Bytes encodes a []byte as `u64 len || bytes`.
type Bytes struct{}

func (Bytes) Encode(v []byte) []byte {
	out := Uint64{}.Encode(uint64(len(v)))
	return append(out, v...)
}

func (Bytes) Decode(b []byte) ([]byte, int, bool) {
	length, n, ok := (Uint64{}).Decode(b)
	if !ok {
		return nil, 0, false
	}
	end := n + int(length)
	if end < n || end > len(b) {
		return nil, 0, false
	}
	out := make([]byte, length)
	copy(out, b[n:end])
	return out, end, true
}

// String encodes a string the same way as Bytes: `u64 len || utf8 bytes`.
type String struct{}

func (String) Encode(v string) []byte {
	return (Bytes{}).Encode([]byte(v))
}

func (String) Decode(b []byte) (string, int, bool) {
	raw, n, ok := (Bytes{}).Decode(b)
	if !ok {
		return "", 0, false
	}
	return string(raw), n, true
}

// Set encodes a set of comparable items as `u64 len || repeat(u64 item_len ||
// item)`: each item's own encoding is itself length-prefixed, so a decoder
// can skip an item it doesn't recognize without understanding Item's
// internal layout. Item order is not preserved; decode reconstructs a map
// keyed by the decoded values.
type Set[T comparable] struct {
	Item Codec[T]
}

func (s Set[T]) Encode(v map[T]struct{}) []byte {
	out := (Uint64{}).Encode(uint64(len(v)))
	for item := range v {
		itemBytes := s.Item.Encode(item)
		out = append(out, (Uint64{}).Encode(uint64(len(itemBytes)))...)
		out = append(out, itemBytes...)
	}
	return out
}

func (s Set[T]) Decode(b []byte) (map[T]struct{}, int, bool) {
	count, n, ok := (Uint64{}).Decode(b)
	if !ok {
		return nil, 0, false
	}
	out := make(map[T]struct{}, count)
	for i := uint64(0); i < count; i++ {
		itemLen, c, ok := (Uint64{}).Decode(b[n:])
		if !ok {
			return nil, 0, false
		}
		n += c

		end := n + int(itemLen)
		if end < n || end > len(b) {
			return nil, 0, false
		}

		item, consumed, ok := s.Item.Decode(b[n:end])
		if !ok || consumed != int(itemLen) {
			return nil, 0, false
		}
		out[item] = struct{}{}
		n = end
	}
	return out, n, true
}

// EncodeSlice concatenates `u64 len || repeat(item)` for an ordered slice,
// used where callers need stable ordering instead of Set's map semantics.
func EncodeSlice[T any](items []T, item Codec[T]) []byte {
	out := (Uint64{}).Encode(uint64(len(items)))
	for _, v := range items {
		out = append(out, item.Encode(v)...)
	}
	return out
}

// DecodeSlice is the inverse of EncodeSlice.
func DecodeSlice[T any](b []byte, item Codec[T]) ([]T, int, bool) {
	count, n, ok := (Uint64{}).Decode(b)
	if !ok {
		return nil, 0, false
	}
	out := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		v, consumed, ok := item.Decode(b[n:])
		if !ok {
			return nil, 0, false
		}
		out = append(out, v)
		n += consumed
	}
	return out, n, true
}

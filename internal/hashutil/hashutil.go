// Package hashutil provides small Hasher implementations for keys used in
// this repository's persistent (immutable.Map) and mutable (hmap.Map)
// hash-map backed structures.
package hashutil

import (
	"reflect"

	"github.com/benbjohnson/immutable"
)

// PointerHasher hashes any value by its underlying pointer identity. Used to
// key maps by *ir.Instruction / *ir.Block / *ir.Type identity, matching the
// "interned-ref identity comparison" requirement spec.md §9 calls out.
type PointerHasher[T any] struct{}

func (PointerHasher[T]) Hash(v T) uint32 {
	p := reflect.ValueOf(v).Pointer()
	return uint32(p ^ (p >> 32))
}

func (PointerHasher[T]) Equal(a, b T) bool {
	return any(a) == any(b)
}

var _ immutable.Hasher[any] = PointerHasher[any]{}

// Int32Hasher hashes any int32-based key type, used for ir.RegisterID
// (including the RESULT_REGISTER sentinel) in env.Environment's
// persistent map.
type Int32Hasher[T ~int32] struct{}

func (Int32Hasher[T]) Hash(v T) uint32 {
	u := uint32(v)
	// fibonacci hashing to spread register numbers (including the large
	// RESULT_REGISTER sentinel) across buckets.
	return (u * 2654435761) ^ (u >> 16)
}

func (Int32Hasher[T]) Equal(a, b T) bool { return a == b }

var _ immutable.Hasher[int32] = Int32Hasher[int32]{}

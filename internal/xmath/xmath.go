// Package xmath includes integer helpers for working with power-of-two
// block sizes.
package xmath

import (
	"math/bits"

	"github.com/flier/fixedarena/internal/debug"
)

// Int is any built-in integer type.
type Int interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IsPow2 reports whether v is a power of two. Zero is not a power of two.
func IsPow2[T Int](v T) bool {
	return v > 0 && v&(v-1) == 0
}

// Log2 returns the base-2 logarithm of v, which must be a power of two.
func Log2[T Int](v T) int {
	debug.Assert(IsPow2(v), "Log2 of non-power-of-two %d", v)

	return bits.TrailingZeros64(uint64(v))
}

// RoundDown rounds v down to a multiple of align, which must be a power of
// two.
func RoundDown[T Int](v, align T) T {
	debug.Assert(v >= 0, "v must not be negative")
	debug.Assert(IsPow2(align), "align must be a power of two")

	return v &^ (align - 1)
}

// RoundUp rounds v up to a multiple of align, which must be a power of two.
func RoundUp[T Int](v, align T) T {
	debug.Assert(v >= 0, "v must not be negative")
	debug.Assert(IsPow2(align), "align must be a power of two")

	return (v + align - 1) &^ (align - 1)
}

// Aligned reports whether v is a multiple of align, which must be a power of
// two.
func Aligned[T Int](v, align T) bool {
	debug.Assert(IsPow2(align), "align must be a power of two")

	return v&(align-1) == 0
}

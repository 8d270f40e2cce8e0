package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a pool is used before Init.
	ErrNotInitialized = errors.New("fixedarena: pool is not initialized")

	// ErrBadRequest is returned for non-positive request sizes.
	ErrBadRequest = errors.New("fixedarena: request size must be positive")

	// ErrTooLarge is returned when a request exceeds the largest class.
	ErrTooLarge = errors.New("fixedarena: request exceeds the largest block class")

	// ErrOutOfSpace is returned when a request exceeds the space available.
	ErrOutOfSpace = errors.New("fixedarena: not enough space available")

	// ErrFragmented is returned when enough space is available but no block
	// can be found or synthesized by splitting.
	ErrFragmented = errors.New("fixedarena: arena is too fragmented")

	// ErrNotABlock is returned when an address is not the exact start of a
	// live block.
	ErrNotABlock = errors.New("fixedarena: address does not name a block")

	// ErrAlreadyFree is returned when freeing a block that is already free.
	ErrAlreadyFree = errors.New("fixedarena: block is already free")

	// ErrReallocNoSpace is returned when a reallocation cannot move the
	// block. The original block is left intact and stays valid.
	ErrReallocNoSpace = errors.New("fixedarena: cannot move block")
)

// AllocError is the error returned by [Pool.Alloc], carrying the request that
// failed.
type AllocError struct {
	Req int
	Err error
}

// Error implements [error].
func (e *AllocError) Error() string {
	return fmt.Sprintf("alloc(%d): %v", e.Req, e.Err)
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *AllocError) Unwrap() error { return e.Err }

// AddrError is the error returned by address-taking operations, carrying the
// offending address.
type AddrError struct {
	Op   string
	Addr Addr
	Err  error
}

// Error implements [error].
func (e *AddrError) Error() string {
	return fmt.Sprintf("%s(%#x): %v", e.Op, e.Addr, e.Err)
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *AddrError) Unwrap() error { return e.Err }

// ReallocError is the error returned by [Pool.Realloc] when the block could
// not be moved. The original block at Addr is preserved and remains the
// caller's valid reference.
type ReallocError struct {
	Addr Addr
	Req  int
	Err  error // why a new block could not be produced
}

// Error implements [error].
func (e *ReallocError) Error() string {
	return fmt.Sprintf("realloc(%#x, %d): %v: %v", e.Addr, e.Req, ErrReallocNoSpace, e.Err)
}

// Unwrap implements multi-error unwrapping for [errors.Is] and [errors.As];
// [errors.Unwrap] does not see through it. The result matches both
// [ErrReallocNoSpace] and the underlying allocation failure.
func (e *ReallocError) Unwrap() []error { return []error{ErrReallocNoSpace, e.Err} }

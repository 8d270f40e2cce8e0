// Package pool provides a segregated-fit block allocator over a single,
// fixed, contiguous arena.
//
// The allocator is meant for memory-constrained environments where a
// deterministic layout, a small footprint, and tunable fragmentation matter
// more than peak throughput. The arena is one byte region whose size is fixed
// when the pool is initialized; every allocation is a block drawn from a
// closed set of power-of-two size classes.
//
// # Key Concepts
//
// Arena: the contiguous byte region owned by the pool. Blocks are identified
// by their byte offset ([Addr]) within it, never by machine pointers, so a
// pool can be placed over any backing store.
//
// Size Class: one of the discrete block sizes the pool recognizes. Classes
// are kept in strictly descending order and each class is exactly twice the
// next, which is what makes splitting a larger block into two buddies of the
// next class possible.
//
// Block Descriptor: the bookkeeping record {address, free} for one block.
// Descriptor tables are reserved up front for the worst case, so the pool
// never allocates after [New] returns.
//
// # Allocation Strategy
//
// A request is served from the smallest class whose size covers it, bounding
// internal fragmentation below half a class for every request larger than
// half the smallest class. When the class has no free
// block, the rightmost free block of the next larger class is split into two
// buddies; splitting cascades upward through as many classes as needed.
// Freed blocks are not merged automatically — fragmentation accumulates
// until [Pool.Defragment] is invoked explicitly.
//
// # Usage
//
//	p, err := pool.New(pool.WithArenaSize(2048))
//	if err != nil { ... }
//
//	a, err := p.Alloc(100) // served by the 128-byte class
//	if err != nil { ... }
//
//	copy(p.Bytes(a), data)
//
//	if err := p.Free(a); err != nil { ... }
//
// # Concurrency
//
// The pool is single-threaded by contract. No operation blocks, suspends, or
// spawns goroutines; callers that share a pool across goroutines or interrupt
// contexts must serialize every operation, including [Pool.IsAllocated].
package pool

package pool

import (
	"github.com/flier/fixedarena/internal/debug"
)

// desc is the bookkeeping record for one block.
//
// The address is stable for the descriptor's whole lifetime; only the free
// bit toggles. A split retires one descriptor of the larger class and
// appends two adjacent descriptors of the smaller class covering the same
// bytes.
type desc struct {
	addr Addr
	free bool
}

// table is the ordered descriptor vector for one size class.
//
// Storage is reserved once, for the worst case in which the whole arena is
// partitioned into this class, so extreme fragmentation can never force a
// reallocation. Descriptors are appended and removed in place; insertions in
// the middle never happen.
type table struct {
	size  int // block size in bytes
	descs []desc
}

func newTable(size, arenaSize int) table {
	// One past the worst-case count, so a partition that does not start on a
	// class boundary still fits.
	capacity := arenaSize/size + 1

	return table{
		size:  size,
		descs: make([]desc, 0, capacity),
	}
}

func (t *table) push(d desc) {
	debug.Assert(len(t.descs) < cap(t.descs), "class %d over capacity %d", t.size, cap(t.descs))

	t.descs = append(t.descs, d)
}

// removeAt removes the descriptor at i, preserving the order of the rest.
func (t *table) removeAt(i int) {
	copy(t.descs[i:], t.descs[i+1:])
	t.descs = t.descs[:len(t.descs)-1]
}

// firstFree returns the index of the lowest-indexed free descriptor, or -1.
//
// Allocating from the front keeps free descriptors clustered at the tail,
// where later splits look for them.
func (t *table) firstFree() int {
	for i := range t.descs {
		if t.descs[i].free {
			return i
		}
	}

	return -1
}

// lastFree returns the index of the highest-indexed free descriptor, or -1.
func (t *table) lastFree() int {
	for i := len(t.descs) - 1; i >= 0; i-- {
		if t.descs[i].free {
			return i
		}
	}

	return -1
}

// allocated returns the number of allocated blocks in this class.
func (t *table) allocated() (n int) {
	for i := range t.descs {
		if !t.descs[i].free {
			n++
		}
	}

	return
}

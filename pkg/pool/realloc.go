package pool

import (
	"github.com/flier/fixedarena/internal/debug"
)

// Realloc resizes the allocated block starting at a to hold at least n
// bytes.
//
// When n still fits the block's current class best, the same address is
// returned and nothing moves. When n is zero the block is freed and
// [AddrNone] is returned. Otherwise a new block is allocated, the first
// min(old class size, n) bytes are copied, and the old block is freed.
//
// On failure the old block is always preserved intact and the returned
// address is a. When the new block cannot be allocated, the error matches
// [ErrReallocNoSpace] as well as the underlying cause, so callers can tell
// "no move possible" from "moved"; an address that does not name an
// allocated block fails with [ErrNotABlock] or [ErrAlreadyFree] instead.
func (p *Pool) Realloc(a Addr, n int) (Addr, error) {
	if !p.ready {
		return a, ErrNotInitialized
	}

	ci, di, ok := p.find(a)
	if !ok {
		return a, &AddrError{Op: "realloc", Addr: a, Err: ErrNotABlock}
	}

	t := &p.tables[ci]
	if t.descs[di].free {
		return a, &AddrError{Op: "realloc", Addr: a, Err: ErrAlreadyFree}
	}

	if n == 0 {
		t.descs[di].free = true
		p.avail += t.size
		p.log("realloc", "%#x:%d freed", a, t.size)

		return AddrNone, nil
	}

	if n < 0 {
		return a, &AllocError{Req: n, Err: ErrBadRequest}
	}

	// Best fit for the current class already; nothing to do.
	if n <= p.classes[0] && p.classIndex(n) == ci {
		p.log("realloc", "%#x:%d fits %d in place", a, t.size, n)

		return a, nil
	}

	b, err := p.Alloc(n)
	if err != nil {
		return a, &ReallocError{Addr: a, Req: n, Err: err}
	}

	// Descriptor indices may have shifted if Alloc split a block, so the old
	// block is freed by address, not through di.
	k := min(t.size, n)
	copy(p.mem.view(b, k), p.mem.view(a, k))
	err = p.Free(a)
	debug.Assert(err == nil, "freeing the old block %#x failed: %v", a, err)

	p.log("realloc", "%#x -> %#x, %d bytes carried", a, b, k)

	return b, nil
}

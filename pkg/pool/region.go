package pool

import (
	"github.com/flier/fixedarena/internal/debug"
)

// Addr is the byte offset of a block within the arena.
type Addr uint32

// AddrNone is the sentinel returned when no address is produced, such as by
// a zero-sized reallocation. It is never a valid block address.
const AddrNone = ^Addr(0)

// region owns the raw arena bytes and provides offset addressing.
//
// It has no policy; every range handed out is bounds-checked against the
// buffer and nothing else.
type region struct {
	buf []byte
}

func newRegion(size int) region {
	return region{buf: make([]byte, size)}
}

func (r region) size() int { return len(r.buf) }

// view returns the n bytes starting at a.
func (r region) view(a Addr, n int) []byte {
	debug.Assert(int(a)+n <= len(r.buf), "view %#x+%d outside arena of %d bytes", a, n, len(r.buf))

	return r.buf[a : int(a)+n : int(a)+n]
}

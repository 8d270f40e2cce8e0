package pool

import (
	"github.com/dolthub/maphash"

	"github.com/flier/fixedarena/internal/debug"
)

const (
	slotEmpty = iota
	slotFull
	slotTomb
)

// addrIndex maps a block address to its class, replacing the cross-class
// linear scan in [Pool.find] with a hash probe.
//
// It is a fixed-capacity open-addressed table keyed with a [maphash.Hasher].
// The slot array is sized at init to twice the number of distinct block
// addresses the arena can ever produce, so the load factor stays below one
// half and the table never grows. Deleted slots become tombstones; a later
// put of the same address reclaims them, which bounds the occupied slots by
// the distinct-address count.
type addrIndex struct {
	hasher maphash.Hasher[Addr]
	slots  []idxSlot
	mask   uint64
}

type idxSlot struct {
	addr  Addr
	class int16
	state uint8
}

func newAddrIndex(addrs int) *addrIndex {
	n := 1
	for n < addrs*2 {
		n <<= 1
	}

	return &addrIndex{
		hasher: maphash.NewHasher[Addr](),
		slots:  make([]idxSlot, n),
		mask:   uint64(n - 1),
	}
}

func (ix *addrIndex) put(a Addr, class int) {
	i := ix.hasher.Hash(a) & ix.mask
	tomb := -1

	for {
		s := &ix.slots[i]
		switch s.state {
		case slotEmpty:
			if tomb >= 0 {
				s = &ix.slots[tomb]
			}
			*s = idxSlot{addr: a, class: int16(class), state: slotFull}

			return

		case slotTomb:
			if tomb < 0 {
				tomb = int(i)
			}

		case slotFull:
			if s.addr == a {
				debug.Assert(false, "address %#x indexed twice", a)
				s.class = int16(class)

				return
			}
		}

		i = (i + 1) & ix.mask
	}
}

func (ix *addrIndex) del(a Addr) {
	for i := ix.hasher.Hash(a) & ix.mask; ; i = (i + 1) & ix.mask {
		s := &ix.slots[i]
		switch {
		case s.state == slotEmpty:
			debug.Assert(false, "deleting unindexed address %#x", a)
			return

		case s.state == slotFull && s.addr == a:
			s.state = slotTomb

			return
		}
	}
}

func (ix *addrIndex) get(a Addr) (class int, ok bool) {
	for i := ix.hasher.Hash(a) & ix.mask; ; i = (i + 1) & ix.mask {
		s := &ix.slots[i]
		switch {
		case s.state == slotEmpty:
			return 0, false

		case s.state == slotFull && s.addr == a:
			return int(s.class), true
		}
	}
}

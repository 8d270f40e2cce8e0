package pool

import (
	"fmt"

	"github.com/flier/fixedarena/internal/debug"
	"github.com/flier/fixedarena/internal/xmath"
)

// Pool is a segregated-fit block allocator over a fixed contiguous arena.
//
// The zero Pool is not ready for use; construct one with [New], or call
// [Pool.Init] explicitly. Every operation on an uninitialized pool fails
// with [ErrNotInitialized].
type Pool struct {
	_ noCopy

	mem     region
	classes []int // block sizes, strictly descending, each twice the next
	tables  []table
	usable  int // bytes covered by descriptors right after Init
	avail   int // usable minus bytes currently allocated
	index   *addrIndex
	defrag  bool
	ready   bool
}

// New creates and initializes a pool.
func New(opts ...Option) (*Pool, error) {
	p := new(Pool)
	if err := p.Init(opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Init partitions the arena greedily from the largest class down: each class
// claims as many whole blocks as fit in the bytes left over by the classes
// above it. The tail bytes smaller than the smallest class are unusable.
//
// With [WithInitialLengths], the caller-supplied distribution replaces the
// greedy one, subject to the same capacity and non-overlap bounds.
func (p *Pool) Init(opts ...Option) error {
	if p.ready {
		return fmt.Errorf("fixedarena: pool is already initialized")
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt.apply(&s)
	}

	if err := s.validate(); err != nil {
		return err
	}

	p.mem = newRegion(s.arenaSize)
	p.classes = append([]int(nil), s.classes...)
	p.defrag = s.coalesce

	p.tables = make([]table, len(s.classes))
	for i, size := range s.classes {
		p.tables[i] = newTable(size, s.arenaSize)
	}

	if s.index {
		p.index = newAddrIndex(s.arenaSize/s.classes[len(s.classes)-1] + len(s.classes))
	}

	off := Addr(0)
	if s.initLens != nil {
		for i, n := range s.initLens {
			for range n {
				p.pushDesc(i, desc{addr: off, free: true})
				off += Addr(p.classes[i])
			}
		}
	} else {
		rem := s.arenaSize
		for i, size := range p.classes {
			for range rem / size {
				p.pushDesc(i, desc{addr: off, free: true})
				off += Addr(size)
			}
			rem %= size
		}

		// The greedy cascade covers everything but the tail smaller than the
		// smallest class.
		smallest := p.classes[len(p.classes)-1]
		debug.Assert(int(off) == xmath.RoundDown(s.arenaSize, smallest),
			"partition covers %d of %d bytes", off, s.arenaSize)
	}

	p.usable = int(off)
	p.avail = p.usable
	p.ready = true

	p.log("init", "%d classes over %d bytes, %d usable", len(p.classes), s.arenaSize, p.usable)

	return nil
}

// Available returns the number of bytes not currently allocated.
//
// Space is accounted in whole blocks: a successful allocation consumes its
// class size, not its request size.
func (p *Pool) Available() int { return p.avail }

// Bytes returns the backing bytes of the allocated block starting at a, or
// nil if a does not name an allocated block. The slice is the full class
// size of the block.
func (p *Pool) Bytes(a Addr) []byte {
	if !p.ready {
		return nil
	}

	ci, di, ok := p.find(a)
	if !ok || p.tables[ci].descs[di].free {
		return nil
	}

	return p.mem.view(a, p.tables[ci].size)
}

// IsAllocated reports whether a is the exact start address of a block that
// is currently allocated.
func (p *Pool) IsAllocated(a Addr) bool {
	if !p.ready {
		return false
	}

	ci, di, ok := p.find(a)

	return ok && !p.tables[ci].descs[di].free
}

// Free marks the block starting exactly at a as free.
//
// Addresses that do not name a block, including addresses interior to one,
// fail with [ErrNotABlock]; freeing a free block fails with [ErrAlreadyFree].
// Neither failure modifies the pool.
func (p *Pool) Free(a Addr) error {
	if !p.ready {
		return ErrNotInitialized
	}

	ci, di, ok := p.find(a)
	if !ok {
		p.log("free", "%#x: not a block", a)
		return &AddrError{Op: "free", Addr: a, Err: ErrNotABlock}
	}

	t := &p.tables[ci]
	if t.descs[di].free {
		p.log("free", "%#x: already free", a)
		return &AddrError{Op: "free", Addr: a, Err: ErrAlreadyFree}
	}

	t.descs[di].free = true
	p.avail += t.size
	p.log("free", "%#x:%d", a, t.size)

	return nil
}

// classIndex returns the smallest class whose size covers n. The caller
// guarantees 0 < n <= classes[0].
func (p *Pool) classIndex(n int) int {
	for i := len(p.classes) - 1; i >= 0; i-- {
		if p.classes[i] >= n {
			return i
		}
	}

	debug.Assert(false, "no class for request of %d bytes", n)

	return 0
}

// find returns the class and descriptor index whose address field equals a
// exactly.
//
// Without an address index this is a linear scan over every live descriptor.
// In debug builds the scan continues past a hit to check that no other
// descriptor shares the address.
func (p *Pool) find(a Addr) (ci, di int, ok bool) {
	if p.index != nil {
		ci, ok = p.index.get(a)
		if !ok {
			return 0, 0, false
		}

		for di = range p.tables[ci].descs {
			if p.tables[ci].descs[di].addr == a {
				return ci, di, true
			}
		}

		debug.Assert(false, "index names class %d for %#x but the class has no such descriptor", ci, a)

		return 0, 0, false
	}

	for i := range p.tables {
		for j := range p.tables[i].descs {
			if p.tables[i].descs[j].addr != a {
				continue
			}

			if !debug.Enabled {
				return i, j, true
			}

			debug.Assert(!ok, "descriptors %d/%d and %d/%d share address %#x", ci, di, i, j, a)
			ci, di, ok = i, j, true
		}
	}

	return ci, di, ok
}

func (p *Pool) pushDesc(ci int, d desc) {
	p.tables[ci].push(d)
	if p.index != nil {
		p.index.put(d.addr, ci)
	}
}

func (p *Pool) removeDesc(ci, di int) {
	a := p.tables[ci].descs[di].addr
	p.tables[ci].removeAt(di)
	if p.index != nil {
		p.index.del(a)
	}
}

func (p *Pool) log(op, format string, args ...any) {
	debug.Log([]any{"%p %d/%d", p, p.avail, p.usable}, op, format, args...)
}

// checkClasses validates a class table: strictly descending powers of two,
// each class exactly twice the next.
func checkClasses(classes []int) error {
	if len(classes) == 0 {
		return fmt.Errorf("fixedarena: no size classes configured")
	}

	for i, size := range classes {
		if !xmath.IsPow2(size) {
			return fmt.Errorf("fixedarena: class size %d is not a power of two", size)
		}

		if i > 0 && classes[i-1] != size*2 {
			return fmt.Errorf("fixedarena: class %d does not halve its predecessor %d", size, classes[i-1])
		}
	}

	return nil
}

// noCopy triggers `go vet -copylocks` on pools copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

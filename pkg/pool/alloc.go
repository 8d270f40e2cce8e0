package pool

// Alloc allocates a block of at least n bytes and returns its address.
//
// The block is drawn from the smallest class whose size covers n, so
// internal fragmentation stays below half the class size unless n is at
// most half the smallest class. When that class
// has no free block, one is synthesized by splitting a block from a larger
// class; splitting cascades through as many classes as necessary.
//
// Space accounting is by class: a successful Alloc reduces [Pool.Available]
// by the class size, not by n.
func (p *Pool) Alloc(n int) (Addr, error) {
	if !p.ready {
		return AddrNone, ErrNotInitialized
	}

	if n <= 0 {
		return AddrNone, &AllocError{Req: n, Err: ErrBadRequest}
	}

	if n > p.classes[0] {
		return AddrNone, &AllocError{Req: n, Err: ErrTooLarge}
	}

	if n > p.avail {
		return AddrNone, &AllocError{Req: n, Err: ErrOutOfSpace}
	}

	ci := p.classIndex(n)
	t := &p.tables[ci]

	// Direct hit: the first free block wins, keeping the free descriptors
	// clustered at the tail of the table.
	if di := t.firstFree(); di >= 0 {
		t.descs[di].free = false
		p.avail -= t.size
		p.log("alloc", "%#x:%d for %d", t.descs[di].addr, t.size, n)

		return t.descs[di].addr, nil
	}

	if ci == 0 {
		return AddrNone, &AllocError{Req: n, Err: ErrFragmented}
	}

	a, err := p.carve(ci - 1)
	if err != nil {
		return AddrNone, &AllocError{Req: n, Err: err}
	}

	// Split: the lower half becomes the allocation, its buddy stays free.
	p.pushDesc(ci, desc{addr: a, free: false})
	p.pushDesc(ci, desc{addr: a + Addr(t.size), free: true})
	p.avail -= t.size
	p.log("split", "%#x:%d for %d, buddy %#x free", a, t.size, n, a+Addr(t.size))

	return a, nil
}

// carve removes the rightmost free block of class ci from its table and
// returns its address, no longer tracked by any descriptor.
//
// If the class has no free block, carve recurses into the next larger class
// and splits the block it obtains: the upper half is parked as a free
// descriptor of class ci, the lower half is handed down. A cascade therefore
// leaves one free buddy behind in every class it passes through, and the
// address it produces is the base of the block taken from the topmost class.
func (p *Pool) carve(ci int) (Addr, error) {
	t := &p.tables[ci]

	if di := t.lastFree(); di >= 0 {
		a := t.descs[di].addr
		p.removeDesc(ci, di)

		return a, nil
	}

	if ci == 0 {
		return AddrNone, ErrFragmented
	}

	a, err := p.carve(ci - 1)
	if err != nil {
		return AddrNone, err
	}

	p.pushDesc(ci, desc{addr: a + Addr(t.size), free: true})

	return a, nil
}

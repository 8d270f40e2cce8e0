package pool

import (
	"errors"

	"github.com/flier/fixedarena/internal/xmath"
)

// Defragable returns the pool's compaction capability, if configured.
//
// The pool advertises the capability only under [WithCoalescing]; without
// it, freed buddies are never merged and the second return is false.
func (p *Pool) Defragable() (Defragable, bool) {
	if !p.defrag {
		return nil, false
	}

	return p, true
}

// IsFragmented implements [Defragable]: it reports whether any pair of free
// buddies could be merged into the next larger class.
func (p *Pool) IsFragmented() bool {
	if !p.ready {
		return false
	}

	for ci := len(p.tables) - 1; ci > 0; ci-- {
		if lo, _, ok := p.mergeable(ci); ok {
			p.log("fragmented", "buddies at %#x:%d", p.tables[ci].descs[lo].addr, p.tables[ci].size)

			return true
		}
	}

	return false
}

// Defragment implements [Defragable] by buddy coalescing: two free blocks of
// one class that are adjacent, with the lower one aligned to twice the class
// size, merge into a single free block of the next larger class. Classes are
// swept smallest to largest so a merged block can merge again at the class
// above; a fully freed arena folds all the way back into the largest class.
//
// Allocated blocks never move and no addresses are invalidated.
func (p *Pool) Defragment() error {
	if !p.ready {
		return ErrNotInitialized
	}

	if !p.defrag {
		return errors.ErrUnsupported
	}

	merges := 0
	for ci := len(p.tables) - 1; ci > 0; ci-- {
		for {
			lo, hi, ok := p.mergeable(ci)
			if !ok {
				break
			}

			p.mergeDescs(ci, lo, hi)
			merges++
		}
	}

	p.log("defrag", "%d merges", merges)

	return nil
}

// mergeable finds a pair of free buddies in class ci and returns their
// descriptor indices, lower address first.
func (p *Pool) mergeable(ci int) (lo, hi int, ok bool) {
	t := &p.tables[ci]

	for i := range t.descs {
		if !t.descs[i].free {
			continue
		}

		a := t.descs[i].addr
		if !xmath.Aligned(a, Addr(t.size)*2) {
			continue
		}

		buddy := a + Addr(t.size)
		for j := range t.descs {
			if j != i && t.descs[j].free && t.descs[j].addr == buddy {
				return i, j, true
			}
		}
	}

	return 0, 0, false
}

// mergeDescs retires the buddy pair (lo, hi) of class ci and pushes the
// merged block onto the class above.
func (p *Pool) mergeDescs(ci, lo, hi int) {
	t := &p.tables[ci]
	a := t.descs[lo].addr

	p.log("merge", "%#x+%#x:%d -> %#x:%d", a, t.descs[hi].addr, t.size, a, t.size*2)

	// Remove the higher index first so the lower one stays valid.
	if lo > hi {
		lo, hi = hi, lo
	}
	p.removeDesc(ci, hi)
	p.removeDesc(ci, lo)

	p.pushDesc(ci-1, desc{addr: a, free: true})
}

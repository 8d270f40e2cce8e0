package pool_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/fixedarena/internal/debug"
	"github.com/flier/fixedarena/pkg/pool"
)

// checkInvariants verifies the descriptor-table invariants that must hold
// after any sequence of operations: no overlapping blocks, no duplicate
// addresses, and exact space accounting.
func checkInvariants(p *pool.Pool) {
	descs := p.AllDescs()

	allocated := 0
	for i, d := range descs {
		if !d.Free {
			allocated += d.Size
		}

		for _, e := range descs[i+1:] {
			So(e.Addr, ShouldNotEqual, d.Addr)

			overlap := int(d.Addr) < int(e.Addr)+e.Size && int(e.Addr) < int(d.Addr)+d.Size
			So(overlap, ShouldBeFalse)
		}
	}

	So(p.Available()+allocated, ShouldEqual, p.Usable())
}

func TestPool(t *testing.T) {
	defer debug.WithTesting(t)()

	Convey("Given a pool over a 2048-byte arena", t, func() {
		p, err := pool.New()
		So(err, ShouldBeNil)
		So(p.Usable(), ShouldEqual, 2048)
		So(p.Available(), ShouldEqual, 2048)

		Convey("When allocating 1000 bytes", func() {
			a, err := p.Alloc(1000)
			So(err, ShouldBeNil)

			Convey("Then the 1024 class at offset zero serves it", func() {
				So(a, ShouldEqual, pool.Addr(0))
				So(p.Available(), ShouldEqual, 1024)
				So(p.IsAllocated(a), ShouldBeTrue)
				So(len(p.Bytes(a)), ShouldEqual, 1024)

				checkInvariants(p)
			})
		})

		Convey("When allocating 100 bytes", func() {
			a, err := p.Alloc(100)
			So(err, ShouldBeNil)

			Convey("Then a 128 block is split off and space drops by the class size", func() {
				So(p.IsAllocated(a), ShouldBeTrue)
				So(len(p.Bytes(a)), ShouldEqual, 128)
				So(p.Available(), ShouldEqual, 2048-128)

				checkInvariants(p)
			})
		})

		Convey("When growing a 64-byte block by one byte", func() {
			a, err := p.Alloc(64)
			So(err, ShouldBeNil)

			buf := p.Bytes(a)
			for i := range buf {
				buf[i] = byte(i)
			}

			b, err := p.Realloc(a, 65)
			So(err, ShouldBeNil)

			Convey("Then the block moves and its bytes are carried over", func() {
				So(b, ShouldNotEqual, a)
				So(p.IsAllocated(a), ShouldBeFalse)
				So(p.IsAllocated(b), ShouldBeTrue)

				for i, v := range p.Bytes(b)[:64] {
					So(v, ShouldEqual, byte(i))
				}

				checkInvariants(p)
			})
		})

		Convey("When freeing a block twice", func() {
			a, err := p.Alloc(200)
			So(err, ShouldBeNil)

			So(p.Free(a), ShouldBeNil)
			avail := p.Available()

			err = p.Free(a)

			Convey("Then the second free is a surfaced no-op", func() {
				So(errors.Is(err, pool.ErrAlreadyFree), ShouldBeTrue)
				So(p.Available(), ShouldEqual, avail)
				So(p.IsAllocated(a), ShouldBeFalse)

				checkInvariants(p)
			})
		})

		Convey("When freeing an address that was never a block", func() {
			avail := p.Available()
			err := p.Free(pool.Addr(0xDEADBEEF))

			Convey("Then nothing changes", func() {
				So(errors.Is(err, pool.ErrNotABlock), ShouldBeTrue)
				So(p.IsAllocated(pool.Addr(0xDEADBEEF)), ShouldBeFalse)
				So(p.Available(), ShouldEqual, avail)

				checkInvariants(p)
			})
		})

		Convey("When freeing every allocated block", func() {
			var addrs []pool.Addr
			for _, n := range []int{1000, 300, 100, 40, 7, 64} {
				a, err := p.Alloc(n)
				So(err, ShouldBeNil)
				addrs = append(addrs, a)
			}

			for _, a := range addrs {
				So(p.Free(a), ShouldBeNil)
			}

			Convey("Then the space available is restored exactly", func() {
				So(p.Available(), ShouldEqual, p.Usable())

				checkInvariants(p)
			})
		})
	})
}

func TestPoolNotInitialized(t *testing.T) {
	Convey("Given the zero pool", t, func() {
		var p pool.Pool

		Convey("Then every operation reports it", func() {
			_, err := p.Alloc(1)
			So(errors.Is(err, pool.ErrNotInitialized), ShouldBeTrue)

			So(errors.Is(p.Free(0), pool.ErrNotInitialized), ShouldBeTrue)

			_, err = p.Realloc(0, 1)
			So(errors.Is(err, pool.ErrNotInitialized), ShouldBeTrue)

			So(p.IsAllocated(0), ShouldBeFalse)
			So(p.Bytes(0), ShouldBeNil)
		})
	})
}

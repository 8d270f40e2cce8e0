package pool_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flier/fixedarena/pkg/pool"
)

// TestIndexMatchesLinearScan drives an indexed and an unindexed pool through
// the same randomized workload and checks they never disagree.
func TestIndexMatchesLinearScan(t *testing.T) {
	t.Parallel()

	lin, err := pool.New(pool.WithCoalescing(true))
	require.NoError(t, err)

	idx, err := pool.New(pool.WithCoalescing(true), pool.WithAddressIndex(true))
	require.NoError(t, err)
	require.True(t, idx.Indexed())

	rng := rand.New(rand.NewSource(42))
	var live []pool.Addr

	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(10); {
		case op < 5:
			n := 1 + rng.Intn(1024)

			a, errA := lin.Alloc(n)
			b, errB := idx.Alloc(n)
			require.Equal(t, errA == nil, errB == nil, "op %d: alloc(%d): %v vs %v", i, n, errA, errB)

			if errA == nil {
				require.Equal(t, a, b, "op %d", i)
				live = append(live, a)
			}

		case op < 8 && len(live) > 0:
			j := rng.Intn(len(live))
			a := live[j]
			live = append(live[:j], live[j+1:]...)

			require.Equal(t, lin.Free(a), idx.Free(a), "op %d", i)

		case op < 9:
			// Probe a mix of live, stale, and junk addresses.
			a := pool.Addr(rng.Intn(2048))
			require.Equal(t, lin.IsAllocated(a), idx.IsAllocated(a), "op %d: %#x", i, a)

		default:
			require.Equal(t, lin.Defragment(), idx.Defragment(), "op %d", i)
		}

		require.Equal(t, lin.Available(), idx.Available(), "op %d", i)
	}

	require.Equal(t, lin.AllDescs(), idx.AllDescs())
}

func TestIndexSurvivesSplitsAndMerges(t *testing.T) {
	t.Parallel()

	p, err := pool.New(pool.WithAddressIndex(true), pool.WithCoalescing(true))
	require.NoError(t, err)

	// Cascading splits retire and create descriptors; the index must track
	// every one.
	a, err := p.Alloc(32)
	require.NoError(t, err)
	require.True(t, p.IsAllocated(a))

	for _, d := range p.AllDescs() {
		if d.Free {
			require.False(t, p.IsAllocated(d.Addr))
		} else {
			require.True(t, p.IsAllocated(d.Addr))
		}
	}

	require.NoError(t, p.Free(a))
	require.NoError(t, p.Defragment())

	// Merged away: the old 32-block start addresses must be gone...
	require.False(t, p.IsAllocated(a))

	// The block at offset zero was never split and is served first.
	b, err := p.Alloc(1024)
	require.NoError(t, err)
	require.True(t, p.IsAllocated(b))

	// ...while the merged 1024 block, rebuilt at a, is findable again.
	c, err := p.Alloc(1024)
	require.NoError(t, err)
	require.Equal(t, a, c)
	require.True(t, p.IsAllocated(c))

	require.NoError(t, p.Free(c))
	require.NoError(t, p.Free(b))
}

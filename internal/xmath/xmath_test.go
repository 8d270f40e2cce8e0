package xmath_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flier/fixedarena/internal/xmath"
)

func TestIsPow2(t *testing.T) {
	t.Parallel()

	for _, v := range []int{1, 2, 4, 32, 1024, 1 << 30} {
		require.True(t, xmath.IsPow2(v), "%d", v)
	}

	for _, v := range []int{0, -1, -2, 3, 6, 33, 1000, 1<<30 + 1} {
		require.False(t, xmath.IsPow2(v), "%d", v)
	}
}

func TestLog2(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, xmath.Log2(1))
	require.Equal(t, 5, xmath.Log2(32))
	require.Equal(t, 10, xmath.Log2(uint32(1024)))
}

func TestRounding(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, xmath.RoundDown(31, 32))
	require.Equal(t, 32, xmath.RoundDown(33, 32))
	require.Equal(t, 2048, xmath.RoundDown(2060, 512))

	require.Equal(t, 32, xmath.RoundUp(31, 32))
	require.Equal(t, 32, xmath.RoundUp(32, 32))
	require.Equal(t, 64, xmath.RoundUp(33, 32))

	require.True(t, xmath.Aligned(2048, 1024))
	require.False(t, xmath.Aligned(2080, 1024))
}

package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFibonacci tests known values across integer widths.
func TestFibonacci(t *testing.T) {
	assert.Equal(t, uint32(0), Fibonacci[uint32](0))
	assert.Equal(t, uint32(1), Fibonacci[uint32](1))
	assert.Equal(t, uint32(1), Fibonacci[uint32](2))
	assert.Equal(t, uint32(2), Fibonacci[uint32](3))
	assert.Equal(t, uint32(55), Fibonacci[uint32](10))
	assert.Equal(t, uint64(267_914_296), Fibonacci[uint64](42))
	assert.Equal(t, int64(12_586_269_025), Fibonacci[int64](50))
	assert.Equal(t, uint64(12_200_160_415_121_876_738), Fibonacci[uint64](93))
}

// TestFibonacci_MatchesIteration compares against the naive recurrence.
func TestFibonacci_MatchesIteration(t *testing.T) {
	a, b := uint64(0), uint64(1)
	for n := range uint32(94) {
		require.Equal(t, a, Fibonacci[uint64](n), "F(%d)", n)
		a, b = b, a+b
	}
}

// TestFibonacci_Wraps tests that overflow wraps like T arithmetic.
func TestFibonacci_Wraps(t *testing.T) {
	// F(14) = 377 wraps to 377 - 256 = 121 in a uint8.
	assert.Equal(t, uint8(121), Fibonacci[uint8](14))
}

// TestCheckedFibonacci tests the overflow guard.
func TestCheckedFibonacci(t *testing.T) {
	f, err := CheckedFibonacci(93)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_200_160_415_121_876_738), f)

	_, err = CheckedFibonacci(94)
	require.ErrorIs(t, err, ErrFibonacciOverflow)
}

// BenchmarkFibonacci benchmarks the largest uint64 value.
func BenchmarkFibonacci(b *testing.B) {
	for b.Loop() {
		_ = Fibonacci[uint64](93)
	}
}

package mathutil

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Fibonacci returns the n-th Fibonacci number, F(0) = 0, F(1) = F(2) = 1.
//
// No overflow check is made: results wrap exactly like arithmetic in T. Use
// CheckedFibonacci when n comes from untrusted input.
//
// The computation walks the bits of n from the top using the doubling
// identities
//
//	F(2k-1) = F(k-1)² + F(k)²
//	F(2k)   = (2·F(k-1) + F(k))·F(k)
//
// so it takes O(log n) multiplications.
func Fibonacci[T constraints.Integer](n uint32) T {
	if n <= 2 {
		if n == 0 {
			return 0
		}
		return 1
	}

	mask := uint32(1)
	for mask<<1 <= n && mask<<1 != 0 {
		mask <<= 1
	}

	// a, b = F(k), F(k+1) for the prefix k of n seen so far, starting at k = 1.
	a, b := T(1), T(1)
	for mask >>= 1; mask != 0; mask >>= 1 {
		t := a * a
		a = (a+a)*b - t
		b = b*b + t

		if mask&n != 0 {
			a, b = b, a+b
		}
	}

	return a
}

// CheckedFibonacci returns F(n) as a uint64, or ErrFibonacciOverflow when
// F(n) >= 2^64.
func CheckedFibonacci(n uint32) (uint64, error) {
	if n > maxFibonacciUint64 {
		return 0, fmt.Errorf("%w: n=%d (max %d)", ErrFibonacciOverflow, n, maxFibonacciUint64)
	}
	return Fibonacci[uint64](n), nil
}

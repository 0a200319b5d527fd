package mathutil

import (
	"errors"
	"math"
)

// Cardinal B-spline constants
const (
	// Orders up to this use a stack-allocated work buffer
	maxStackOrder = 16

	boxHalfWidth     = 0.5 // Half-width of the order-0 box
	boxBoundaryValue = 0.5 // Mean of the one-sided limits at the box edges
	hatKinkSlope     = 0.5 // Mean of the one-sided slopes of B_1 at x = ±1

	halfDivisor = 2.0 // Division by 2
)

// jumpDerivative is returned by B'_0 at its discontinuity.
var jumpDerivative = math.Inf(1)

// Fibonacci constants
const (
	// Largest n whose Fibonacci number fits in a uint64: F(93) = 12200160415121876738
	maxFibonacciUint64 = 93
)

// MinDoublePrimeOrder is the lowest order with a second derivative.
const MinDoublePrimeOrder = 3

// Panic values for caller errors.
var (
	errNegativeOrder = errors.New("mathutil: cardinal B-spline order must be non-negative")

	// ErrDoublePrimeOrder is the panic value of second-derivative evaluation
	// below MinDoublePrimeOrder.
	ErrDoublePrimeOrder = errors.New("mathutil: n>=3 is required for second derivatives of cardinal B-splines")
)

// ErrFibonacciOverflow indicates the requested Fibonacci number does not fit
// in the result type.
var ErrFibonacciOverflow = errors.New("fibonacci number overflows uint64")

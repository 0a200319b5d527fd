package bspline

import (
	"fmt"

	"github.com/tphakala/go-bspline/internal/mathutil"
	"golang.org/x/exp/constraints"
)

// ErrFibonacciOverflow is returned by CheckedFibonacci when the result does
// not fit in a uint64.
var ErrFibonacciOverflow = mathutil.ErrFibonacciOverflow

// ErrDoublePrimeOrder is the panic value of second-derivative evaluation for
// orders below 3.
var ErrDoublePrimeOrder = mathutil.ErrDoublePrimeOrder

// Cardinal evaluates the centred cardinal B-spline B_order(x).
//
// The result is exactly 0 outside (-(order+1)/2, (order+1)/2). Order 0 is the
// unit box with the value 1/2 at x = ±1/2.
//
// Cardinal panics if order is negative; use NewKernel to validate untrusted
// orders.
func Cardinal(order int, x float64) float64 {
	return mathutil.CardinalBSpline(order, x)
}

// CardinalPrime evaluates B'_order(x). For order 0 it is 0 except at the
// jumps, where it returns +Inf at x = 1/2 and -Inf at x = -1/2. At the kinks
// of the hat (order 1) it returns the mean of the one-sided slopes.
func CardinalPrime(order int, x float64) float64 {
	return mathutil.CardinalBSplinePrime(order, x)
}

// CardinalDoublePrime evaluates B''_order(x). It panics with
// ErrDoublePrimeOrder when order < 3.
func CardinalDoublePrime(order int, x float64) float64 {
	return mathutil.CardinalBSplineDoublePrime(order, x)
}

// ForwardCardinal evaluates the forward-shifted B-spline
// B_order(x - (order+1)/2), supported on [0, order+1].
func ForwardCardinal(order int, x float64) float64 {
	return mathutil.ForwardCardinalBSpline(order, x)
}

// Fibonacci returns F(n) with F(0) = 0 and F(1) = 1. Results wrap on
// overflow like arithmetic in T.
func Fibonacci[T constraints.Integer](n uint32) T {
	return mathutil.Fibonacci[T](n)
}

// CheckedFibonacci returns F(n) as a uint64, or an error wrapping
// ErrFibonacciOverflow for n > 93.
func CheckedFibonacci(n uint32) (uint64, error) {
	return mathutil.CheckedFibonacci(n)
}

// Kernel is a cardinal B-spline of a fixed, validated order. The zero value
// is the order-0 box.
type Kernel struct {
	order int
}

// NewKernel returns the kernel of the given order.
func NewKernel(order int) (Kernel, error) {
	if order < 0 {
		return Kernel{}, fmt.Errorf("%w: order must be non-negative, got %d", ErrInvalidOrder, order)
	}
	return Kernel{order: order}, nil
}

// Order returns the kernel order.
func (k Kernel) Order() int {
	return k.order
}

// Support returns the half-width (order+1)/2 of the kernel support.
func (k Kernel) Support() float64 {
	return mathutil.SupportRadius(k.order)
}

// Eval returns B(x).
func (k Kernel) Eval(x float64) float64 {
	return mathutil.CardinalBSpline(k.order, x)
}

// Prime returns B'(x).
func (k Kernel) Prime(x float64) float64 {
	return mathutil.CardinalBSplinePrime(k.order, x)
}

// DoublePrime returns B''(x). It panics with ErrDoublePrimeOrder when the
// kernel order is below 3.
func (k Kernel) DoublePrime(x float64) float64 {
	return mathutil.CardinalBSplineDoublePrime(k.order, x)
}

// Forward returns B(x - (order+1)/2).
func (k Kernel) Forward(x float64) float64 {
	return mathutil.ForwardCardinalBSpline(k.order, x)
}

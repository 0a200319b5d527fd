// Package mathutil provides the numerical kernels behind go-bspline: the
// cardinal B-spline basis with its first two derivatives, and fast-doubling
// Fibonacci numbers.
package mathutil

// CardinalBSpline evaluates the cardinal B-spline of order n at x.
//
// B_n is the n-fold convolution of the unit box with itself. It is even,
// piecewise polynomial of degree n on integer (odd n) or half-integer (even n)
// knots, and vanishes outside (-(n+1)/2, (n+1)/2).
//
// The value is computed with the uniform Cox–de Boor recurrence: an n-entry
// buffer of hat-function values is blended down through n-1 passes.
//
// Non-finite input is not special-cased. B_n(±Inf) is 0. For NaN, orders 0 and
// 1 fall through every comparison and return 0, higher orders return NaN.
//
// CardinalBSpline panics if n is negative.
func CardinalBSpline(n int, x float64) float64 {
	checkOrder(n)

	if x < 0 {
		// B-splines are even.
		return CardinalBSpline(n, -x)
	}

	if n == 0 {
		return box(x)
	}

	if n == 1 {
		return hat(x)
	}

	supportMax := supportRadius(n)
	if x >= supportMax {
		return 0
	}

	var stack [maxStackOrder]float64
	v := workBuffer(&stack, n)
	fillHat(v, x, supportMax)
	fold(v, supportMax-x, n)

	return v[0]
}

// CardinalBSplinePrime evaluates the first derivative B'_n(x).
//
// B'_0 is 0 everywhere except at the jump x = 0.5 where it returns +Inf, and
// -Inf at x = -0.5; the classical derivative does not exist there. B'_1 takes
// the midpoint convention at its kinks: 0 at x = 0 and ∓0.5 at x = ±1.
//
// For n >= 2 the fold stops one pass early and the result is
// B_{n-1}(x+1/2) - B_{n-1}(x-1/2). NaN yields NaN for n >= 3, where at least
// one blending pass runs, and 0 below that.
//
// CardinalBSplinePrime panics if n is negative.
func CardinalBSplinePrime(n int, x float64) float64 {
	checkOrder(n)

	if x < 0 {
		// Derivatives of even functions are odd.
		return -CardinalBSplinePrime(n, -x)
	}

	if n == 0 {
		if x == boxHalfWidth {
			return jumpDerivative
		}
		return 0
	}

	if n == 1 {
		switch {
		case x == 0:
			return 0
		case x == 1:
			return -hatKinkSlope
		case x < 1:
			return -1
		default:
			return 0
		}
	}

	supportMax := supportRadius(n)
	if x >= supportMax {
		return 0
	}

	var stack [maxStackOrder]float64
	v := workBuffer(&stack, n)
	fillHat(v, x, supportMax)
	fold(v, supportMax-x, n-1)

	return v[1] - v[0]
}

// CardinalBSplineDoublePrime evaluates the second derivative B''_n(x) as
// B_{n-2}(x+1) - 2·B_{n-2}(x) + B_{n-2}(x-1).
//
// It panics if n < 3: lower orders have no second derivative in the
// piecewise-continuous sense. NaN yields NaN for n >= 4 and 0 for n == 3.
func CardinalBSplineDoublePrime(n int, x float64) float64 {
	if n < MinDoublePrimeOrder {
		panic(ErrDoublePrimeOrder)
	}

	if x < 0 {
		// Second derivatives of even functions are even.
		return CardinalBSplineDoublePrime(n, -x)
	}

	supportMax := supportRadius(n)
	if x >= supportMax {
		return 0
	}

	var stack [maxStackOrder]float64
	v := workBuffer(&stack, n)
	fillHat(v, x, supportMax)
	fold(v, supportMax-x, n-2)

	return v[2] - 2*v[1] + v[0]
}

// ForwardCardinalBSpline evaluates B_n(x - (n+1)/2), whose support is [0, n+1].
func ForwardCardinalBSpline(n int, x float64) float64 {
	return CardinalBSpline(n, x-supportRadius(n))
}

// SupportRadius returns (n+1)/2, the half-width of the support of B_n.
func SupportRadius(n int) float64 {
	checkOrder(n)
	return supportRadius(n)
}

func supportRadius(n int) float64 {
	return float64(n+1) / halfDivisor
}

// box is B_0 for x >= 0.
func box(x float64) float64 {
	if x < boxHalfWidth {
		return 1
	} else if x == boxHalfWidth {
		return boxBoundaryValue
	}
	return 0
}

// hat is B_1.
func hat(x float64) float64 {
	if x < 0 {
		return hat(-x)
	} else if x < 1 {
		return 1 - x
	}
	return 0
}

// workBuffer returns an n-element buffer backed by stack when it fits.
func workBuffer(stack *[maxStackOrder]float64, n int) []float64 {
	if n <= maxStackOrder {
		return stack[:n]
	}
	return make([]float64, n)
}

// fillHat sets v[i] = B_1(x + 1 - supportMax + i). At most two entries are
// nonzero.
func fillHat(v []float64, x, supportMax float64) {
	z := x + 1 - supportMax
	for i := range v {
		v[i] = hat(z)
		z++
	}
}

// fold runs the blending passes j = 2..last. After pass j, v[0..n-j] hold
// order-j values; last == len(v) leaves B_n(x) in v[0].
func fold(v []float64, smx float64, last int) {
	n := len(v)
	for j := 2; j <= last; j++ {
		a := float64(j+1) - smx
		b := smx
		fj := float64(j)
		for k := 0; k <= n-j; k++ {
			v[k] = (a*v[k+1] + b*v[k]) / fj
			a++
			b--
		}
	}
}

func checkOrder(n int) {
	if n < 0 {
		panic(errNegativeOrder)
	}
}

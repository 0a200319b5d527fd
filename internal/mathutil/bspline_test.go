package mathutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-bspline/internal/testutil"
)

// Dyadic sampling step: every grid point and every shift of it by a
// half-integer is exactly representable.
const gridStep = 1.0 / 256.0

// grid returns the points from, from+h, ... up to and including to.
func grid(from, to float64) []float64 {
	var xs []float64
	for x := from; x <= to; x += gridStep {
		xs = append(xs, x)
	}
	return xs
}

// TestCardinalBSpline_Box tests the order-0 kernel.
func TestCardinalBSpline_Box(t *testing.T) {
	// Outside support
	assert.Equal(t, 0.0, CardinalBSpline(0, 1.1))
	assert.Equal(t, 0.0, CardinalBSpline(0, -1.1))
	assert.Equal(t, 0.0, CardinalBSplinePrime(0, 1.1))

	// Boundary
	assert.Equal(t, 0.5, CardinalBSpline(0, 0.5))
	assert.Equal(t, 0.5, CardinalBSpline(0, -0.5))
	assert.Equal(t, math.Inf(1), CardinalBSplinePrime(0, 0.5))

	// Inside support
	for _, x := range grid(-0.5+gridStep, 0.5-gridStep) {
		assert.Equal(t, 1.0, CardinalBSpline(0, x), "B0(%v)", x)
		assert.Equal(t, 0.0, CardinalBSplinePrime(0, x), "B0'(%v)", x)
	}

	// Forward variant lives on [0, 1]
	for _, x := range grid(gridStep, 1-gridStep) {
		assert.Equal(t, 1.0, ForwardCardinalBSpline(0, x), "forward B0(%v)", x)
	}
}

// TestCardinalBSplinePrime_BoxJumpSigns checks both edges of the box
// independently: the odd dispatch turns the +Inf at 0.5 into -Inf at -0.5.
func TestCardinalBSplinePrime_BoxJumpSigns(t *testing.T) {
	assert.True(t, math.IsInf(CardinalBSplinePrime(0, 0.5), 1))
	assert.True(t, math.IsInf(CardinalBSplinePrime(0, -0.5), -1))
	assert.Equal(t, 0.0, CardinalBSplinePrime(0, 0.4999999999999999))
	assert.Equal(t, 0.0, CardinalBSplinePrime(0, -0.5000000000000001))
}

// TestCardinalBSpline_Hat tests the order-1 kernel and its derivative.
func TestCardinalBSpline_Hat(t *testing.T) {
	assert.Equal(t, 0.0, CardinalBSpline(1, 2.1))
	assert.Equal(t, 0.0, CardinalBSpline(1, -2.1))

	for _, x := range grid(-1, 1) {
		assert.Equal(t, 1-math.Abs(x), CardinalBSpline(1, x), "B1(%v)", x)

		var want float64
		switch {
		case x == -1:
			want = 0.5
		case x == 1:
			want = -0.5
		case x < 0:
			want = 1
		case x == 0:
			want = 0
		default:
			want = -1
		}
		assert.Equal(t, want, CardinalBSplinePrime(1, x), "B1'(%v)", x)
	}

	for _, x := range grid(0, 2-gridStep) {
		assert.Equal(t, 1-math.Abs(x-1), ForwardCardinalBSpline(1, x), "forward B1(%v)", x)
	}

	// Vertices
	assert.Equal(t, 0.0, CardinalBSpline(1, -1))
	assert.Equal(t, 1.0, CardinalBSpline(1, 0))
	assert.Equal(t, 0.0, CardinalBSpline(1, 1))

	// Derivative vanishes past the support
	assert.Equal(t, 0.0, CardinalBSplinePrime(1, 1.5))
	assert.Equal(t, 0.0, CardinalBSplinePrime(1, -3))
}

// TestCardinalBSpline_Quadratic compares order 2 against its closed form.
func TestCardinalBSpline_Quadratic(t *testing.T) {
	b2 := func(x float64) float64 {
		ax := math.Abs(x)
		switch {
		case ax >= 1.5:
			return 0
		case ax >= 0.5:
			t := ax - 1.5
			return t * t / 2
		default:
			t1 := ax - 0.5
			t2 := ax + 0.5
			return (2 - t1*t1 - t2*t2) / 2
		}
	}
	b2Prime := func(x float64) float64 {
		ax := math.Abs(x)
		sign := 1.0
		if x < 0 {
			sign = -1
		}
		switch {
		case ax >= 1.5:
			return 0
		case ax >= 0.5:
			return (ax - 1.5) * sign
		default:
			return -2 * ax * sign
		}
	}

	for _, x := range grid(-5, 5) {
		testutil.AssertWithinULP(t, b2(x), CardinalBSpline(2, x), 4, "B2(%v)", x)
		testutil.AssertWithinULP(t, b2Prime(x), CardinalBSplinePrime(2, x), 4, "B2'(%v)", x)
	}
}

// TestCardinalBSpline_KnownValues tests regression fixtures.
func TestCardinalBSpline_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		x        float64
		expected float64
		ulps     uint64
	}{
		{"cubic at 0", 3, 0, 2.0 / 3.0, 4},
		{"cubic at 1", 3, 1, 1.0 / 6.0, 4},
		{"cubic at 2", 3, 2, 0, 0},
		{"quintic at 0", 5, 0, 11.0 / 20.0, 4},
		{"quintic at 2", 5, 2, 1.0 / 120.0, 4},
		{"quintic at 3", 5, 3, 0, 0},
		{"box edge", 0, 0.5, 0.5, 0},
		{"hat left vertex", 1, -1, 0, 0},
		{"hat apex", 1, 0, 1, 0},
		{"hat right vertex", 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertWithinULP(t, tt.expected, CardinalBSpline(tt.n, tt.x), tt.ulps)
		})
	}

	assert.InDelta(t, 13.0/60.0, CardinalBSpline(5, 1), 1e-15)
}

// TestCardinalBSpline_Symmetry tests exact evenness of B and B'' and exact
// oddness of B'.
func TestCardinalBSpline_Symmetry(t *testing.T) {
	for n := range 9 {
		supp := SupportRadius(n)
		for _, x := range grid(0, supp+1) {
			assert.Equal(t, CardinalBSpline(n, x), CardinalBSpline(n, -x), "B%d even at %v", n, x)
			assert.Equal(t, -CardinalBSplinePrime(n, x), CardinalBSplinePrime(n, -x), "B%d' odd at %v", n, x)
			if n >= 3 {
				assert.Equal(t, CardinalBSplineDoublePrime(n, x), CardinalBSplineDoublePrime(n, -x),
					"B%d'' even at %v", n, x)
			}
		}
	}
}

// TestCardinalBSpline_CompactSupport tests that B_n vanishes exactly for
// |x| >= (n+1)/2.
func TestCardinalBSpline_CompactSupport(t *testing.T) {
	for n := range 12 {
		supp := SupportRadius(n)
		for _, x := range []float64{supp, supp + gridStep, supp + 0.5, supp + 7, math.MaxFloat64} {
			assert.Equal(t, 0.0, CardinalBSpline(n, x), "B%d(%v)", n, x)
			assert.Equal(t, 0.0, CardinalBSpline(n, -x), "B%d(%v)", n, -x)
			if n >= 1 {
				assert.Equal(t, 0.0, CardinalBSplinePrime(n, x), "B%d'(%v)", n, x)
			}
			if n >= 3 {
				assert.Equal(t, 0.0, CardinalBSplineDoublePrime(n, x), "B%d''(%v)", n, x)
			}
		}
	}
}

// TestCardinalBSpline_PartitionOfUnity tests that integer translates sum to 1.
func TestCardinalBSpline_PartitionOfUnity(t *testing.T) {
	for n := range 6 {
		supp := SupportRadius(n)
		for _, offset := range []float64{0, 0.1, 0.25, 0.5, 0.7, 0.9} {
			x0 := -supp + offset
			t.Run(fmt.Sprintf("n=%d/x0=%v", n, x0), func(t *testing.T) {
				var sum float64
				for k := -n - 2; k <= n+2; k++ {
					sum += CardinalBSpline(n, x0+float64(k))
				}
				assert.InDelta(t, 1.0, sum, 1e-14)
			})
		}
	}
}

// TestCardinalBSplinePrime_Recurrence tests B'_n(x) = B_{n-1}(x+1/2) - B_{n-1}(x-1/2).
func TestCardinalBSplinePrime_Recurrence(t *testing.T) {
	for n := 1; n <= 5; n++ {
		supp := SupportRadius(n)
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			for _, x := range grid(-supp-1, supp+1) {
				expected := CardinalBSpline(n-1, x+0.5) - CardinalBSpline(n-1, x-0.5)
				assert.InDelta(t, expected, CardinalBSplinePrime(n, x), 2*testutil.Epsilon, "x=%v", x)
			}
		})
	}
}

// TestCardinalBSplineDoublePrime_Recurrence tests
// B''_n(x) = B_{n-2}(x+1) - 2·B_{n-2}(x) + B_{n-2}(x-1).
func TestCardinalBSplineDoublePrime_Recurrence(t *testing.T) {
	for n := 3; n <= 5; n++ {
		supp := SupportRadius(n)
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			for _, x := range grid(-supp-1, supp+1) {
				expected := CardinalBSpline(n-2, x+1) - 2*CardinalBSpline(n-2, x) + CardinalBSpline(n-2, x-1)
				assert.InDelta(t, expected, CardinalBSplineDoublePrime(n, x), 4*testutil.Epsilon, "x=%v", x)
			}
		})
	}
}

// TestCardinalBSplineDoublePrime_Precondition tests that low orders panic.
func TestCardinalBSplineDoublePrime_Precondition(t *testing.T) {
	for n := range 3 {
		assert.PanicsWithError(t, ErrDoublePrimeOrder.Error(), func() {
			_ = CardinalBSplineDoublePrime(n, 0.25)
		}, "order %d", n)
	}
	assert.NotPanics(t, func() { _ = CardinalBSplineDoublePrime(3, 0.25) })
}

// TestCardinalBSpline_NegativeOrder tests that negative orders panic.
func TestCardinalBSpline_NegativeOrder(t *testing.T) {
	assert.PanicsWithError(t, errNegativeOrder.Error(), func() { _ = CardinalBSpline(-1, 0) })
	assert.PanicsWithError(t, errNegativeOrder.Error(), func() { _ = CardinalBSplinePrime(-2, 0) })
	assert.PanicsWithError(t, errNegativeOrder.Error(), func() { _ = SupportRadius(-1) })
}

// TestCardinalBSpline_NonFinite pins down the IEEE-754 fall-through behaviour.
func TestCardinalBSpline_NonFinite(t *testing.T) {
	nan := math.NaN()

	for n := range 8 {
		for _, inf := range []float64{math.Inf(1), math.Inf(-1)} {
			assert.Equal(t, 0.0, CardinalBSpline(n, inf), "B%d(%v)", n, inf)
			assert.Equal(t, 0.0, CardinalBSplinePrime(n, inf), "B%d'(%v)", n, inf)
			if n >= 3 {
				assert.Equal(t, 0.0, CardinalBSplineDoublePrime(n, inf), "B%d''(%v)", n, inf)
			}
		}
	}

	// NaN misses the support cutoff, every hat value falls through to 0, and
	// the result is NaN exactly when at least one blending pass runs.
	assert.Equal(t, 0.0, CardinalBSpline(0, nan))
	assert.Equal(t, 0.0, CardinalBSpline(1, nan))
	assert.Equal(t, 0.0, CardinalBSplinePrime(0, nan))
	assert.Equal(t, 0.0, CardinalBSplinePrime(1, nan))
	assert.Equal(t, 0.0, CardinalBSplinePrime(2, nan))
	assert.Equal(t, 0.0, CardinalBSplineDoublePrime(3, nan))

	for n := 2; n < 8; n++ {
		assert.True(t, math.IsNaN(CardinalBSpline(n, nan)), "B%d(NaN)", n)
		if n >= 3 {
			assert.True(t, math.IsNaN(CardinalBSplinePrime(n, nan)), "B%d'(NaN)", n)
		}
		if n >= 4 {
			assert.True(t, math.IsNaN(CardinalBSplineDoublePrime(n, nan)), "B%d''(NaN)", n)
		}
	}
}

// TestCardinalBSpline_LargeOrder exercises the heap fallback of the work
// buffer against the stack path through the recurrence identity.
func TestCardinalBSpline_LargeOrder(t *testing.T) {
	n := maxStackOrder + 4
	require.Greater(t, n, maxStackOrder)

	var sum float64
	for k := -n; k <= n; k++ {
		sum += CardinalBSpline(n, 0.3+float64(k))
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	for _, x := range []float64{0, 0.75, 2.5, 6.125} {
		expected := CardinalBSpline(n-1, x+0.5) - CardinalBSpline(n-1, x-0.5)
		assert.InDelta(t, expected, CardinalBSplinePrime(n, x), 1e-14, "x=%v", x)
	}
}

// TestCardinalBSpline_Positive tests that B_n is strictly positive inside its
// support.
func TestCardinalBSpline_Positive(t *testing.T) {
	for n := 2; n <= 8; n++ {
		supp := SupportRadius(n)
		testutil.AssertAllPositive(t, sample(n, -supp+gridStep, supp-gridStep), "B%d", n)
	}
}

func sample(n int, from, to float64) []float64 {
	xs := grid(from, to)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = CardinalBSpline(n, x)
	}
	return out
}

// BenchmarkCardinalBSpline_Cubic benchmarks order 3.
func BenchmarkCardinalBSpline_Cubic(b *testing.B) {
	x := 0.3
	for b.Loop() {
		_ = CardinalBSpline(3, x)
	}
}

// BenchmarkCardinalBSpline_Order20 benchmarks the heap-buffer path.
func BenchmarkCardinalBSpline_Order20(b *testing.B) {
	x := 0.3
	for b.Loop() {
		_ = CardinalBSpline(20, x)
	}
}

// BenchmarkCardinalBSplinePrime_Quintic benchmarks the derivative at order 5.
func BenchmarkCardinalBSplinePrime_Quintic(b *testing.B) {
	x := 1.7
	for b.Loop() {
		_ = CardinalBSplinePrime(5, x)
	}
}

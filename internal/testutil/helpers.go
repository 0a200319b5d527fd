// Package testutil provides reusable test helper functions for go-bspline tests.
package testutil

import (
	"fmt"
	"math"

	"github.com/stretchr/testify/assert"
)

// Epsilon is the float64 machine epsilon, 2^-52.
const Epsilon = 0x1p-52

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	DBTolerance      = 0.01
)

// ULPDistance returns the number of representable float64 values between a
// and b. Values of opposite sign are measured through zero.
func ULPDistance(a, b float64) uint64 {
	ia, ib := orderedBits(a), orderedBits(b)
	if ia > ib {
		return uint64(ia - ib)
	}
	return uint64(ib - ia)
}

// orderedBits maps a float64 onto an integer line that preserves ordering,
// with +0 and -0 both at 0.
func orderedBits(f float64) int64 {
	bits := int64(math.Float64bits(f))
	if bits < 0 {
		return math.MinInt64 - bits
	}
	return bits
}

// AssertWithinULP verifies that actual is within maxULP units in the last place
// of expected. Differences up to Epsilon in absolute terms are accepted too, so
// results near zero are not judged by the ULP spacing of denormals.
func AssertWithinULP(t assert.TestingT, expected, actual float64, maxULP uint64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if math.Abs(expected-actual) <= Epsilon {
		return true
	}
	if d := ULPDistance(expected, actual); d > maxULP {
		return assert.Fail(t, fmt.Sprintf("ULP distance exceeded: expected=%v actual=%v differ by %d ULP (max %d)",
			expected, actual, d, maxULP), msgAndArgs...)
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t assert.TestingT, s []float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, fmt.Sprintf("found NaN: s[%d] is NaN", i), msgAndArgs...)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, fmt.Sprintf("found Inf: s[%d] is %v", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertAllPositive verifies that every element is strictly greater than zero.
func AssertAllPositive(t assert.TestingT, s []float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for i, v := range s {
		if !(v > 0) {
			return assert.Fail(t, fmt.Sprintf("value not positive: s[%d]=%g", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertMonotonicDecreasing verifies that a slice never increases.
func AssertMonotonicDecreasing(t assert.TestingT, s []float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for i := 1; i < len(s); i++ {
		if s[i] > s[i-1] {
			return assert.Fail(t, fmt.Sprintf("not monotonic: s[%d]=%g > s[%d]=%g", i, s[i], i-1, s[i-1]),
				msgAndArgs...)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t assert.TestingT, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	if !(relError <= tolerance) {
		return assert.Fail(t, fmt.Sprintf("relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
			relError, tolerance, expected, actual), msgAndArgs...)
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t assert.TestingT, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if value < minVal || value > maxVal {
		return assert.Fail(t, fmt.Sprintf("value out of range: %g is outside [%g, %g]", value, minVal, maxVal),
			msgAndArgs...)
	}
	return true
}

// tHelper is implemented by *testing.T and *testing.B.
type tHelper interface {
	Helper()
}

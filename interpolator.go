package bspline

import (
	"context"
	"fmt"
	"math"

	"github.com/tphakala/go-bspline/internal/mathutil"
	"github.com/tphakala/go-bspline/internal/simdops"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Config holds interpolation configuration.
type Config struct {
	// Order is the B-spline order. 0 gives nearest-neighbour, 1 linear and
	// DefaultOrder cubic interpolation.
	Order int

	// Start is the abscissa of the first sample.
	Start float64

	// Step is the spacing between samples. Zero selects 1.
	Step float64

	// EnableParallel lets EvaluateSlice split work across goroutines.
	EnableParallel bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateOrder(c.Order); err != nil {
		return err
	}

	if math.IsNaN(c.Start) || math.IsInf(c.Start, 0) {
		return fmt.Errorf("%w: start must be finite", ErrInvalidConfig)
	}

	if c.Step < 0 || math.IsNaN(c.Step) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step must be positive and finite", ErrInvalidConfig)
	}

	return nil
}

// Interpolator is a B-spline that passes through equally spaced samples:
//
//	f(x) = Σ_k c_k · B_n((x - start)/step - k)
//
// The coefficients c_k are solved once at construction so that f hits every
// sample exactly. Coefficients beyond either end are zero, so f decays to 0
// within (n+1)/2 steps outside the sampled range.
//
// An Interpolator is immutable and safe for concurrent use.
type Interpolator struct {
	order  int
	start  float64
	step   float64
	radius float64
	coeffs []float64

	parallel bool
	ops      *simdops.Ops[float64]
}

// NewInterpolator builds an interpolating spline through samples.
func NewInterpolator(samples []float64, config Config) (*Interpolator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if len(samples) < minSamples {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrNotEnoughSamples, minSamples, len(samples))
	}

	for i, y := range samples {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("%w: index %d", ErrInvalidSample, i)
		}
	}

	step := config.Step
	if step == 0 {
		step = defaultStep
	}

	coeffs, err := solveCoefficients(config.Order, samples)
	if err != nil {
		return nil, err
	}

	return &Interpolator{
		order:    config.Order,
		start:    config.Start,
		step:     step,
		radius:   mathutil.SupportRadius(config.Order),
		coeffs:   coeffs,
		parallel: config.EnableParallel,
		ops:      simdops.Float64Ops(),
	}, nil
}

// solveCoefficients solves the collocation system A·c = y with
// A[j][k] = B_n(j - k). A is symmetric positive definite Toeplitz with
// half-bandwidth n/2, so a banded Cholesky factorization is used.
func solveCoefficients(order int, samples []float64) ([]float64, error) {
	n := len(samples)
	bandwidth := min(order/2, n-1)

	if bandwidth == 0 {
		// Diagonal system: orders 0 and 1, or a single sample.
		diag := mathutil.CardinalBSpline(order, 0)
		coeffs := make([]float64, n)
		for i, y := range samples {
			coeffs[i] = y / diag
		}
		return coeffs, nil
	}

	band := make([]float64, bandwidth+1)
	for d := range band {
		band[d] = mathutil.CardinalBSpline(order, float64(d))
	}

	a := mat.NewSymBandDense(n, bandwidth, nil)
	for i := range n {
		for d := 0; d <= bandwidth && i+d < n; d++ {
			a.SetSymBand(i, i+d, band[d])
		}
	}

	var chol mat.BandCholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("collocation matrix for order %d is not positive definite", order)
	}

	rhs := mat.NewVecDense(n, append([]float64(nil), samples...))
	var c mat.VecDense
	if err := chol.SolveVecTo(&c, rhs); err != nil {
		return nil, fmt.Errorf("solving collocation system: %w", err)
	}

	return mat.Col(nil, 0, &c), nil
}

// Evaluate returns f(x). NaN yields NaN; points whose kernel window misses
// every coefficient, including ±Inf, yield 0.
func (ip *Interpolator) Evaluate(x float64) float64 {
	return ip.sum(x, mathutil.CardinalBSpline, 1)
}

// Prime returns f'(x).
func (ip *Interpolator) Prime(x float64) float64 {
	return ip.sum(x, mathutil.CardinalBSplinePrime, 1/ip.step)
}

// DoublePrime returns f''(x). It panics with ErrDoublePrimeOrder when the
// order is below 3.
func (ip *Interpolator) DoublePrime(x float64) float64 {
	if ip.order < mathutil.MinDoublePrimeOrder {
		panic(ErrDoublePrimeOrder)
	}
	return ip.sum(x, mathutil.CardinalBSplineDoublePrime, 1/(ip.step*ip.step))
}

// sum returns scale · Σ_k c_k · basis(order, u - k) over the k with
// |u - k| < (n+1)/2.
func (ip *Interpolator) sum(x float64, basis func(int, float64) float64, scale float64) float64 {
	u := (x - ip.start) / ip.step
	if math.IsNaN(u) {
		return math.NaN()
	}

	last := float64(len(ip.coeffs) - 1)
	if u <= -ip.radius || u >= last+ip.radius {
		return 0
	}

	lo := max(int(math.Floor(u-ip.radius))+1, 0)
	hi := min(int(math.Ceil(u+ip.radius))-1, len(ip.coeffs)-1)
	if hi < lo {
		return 0
	}

	var stack [maxWindow]float64
	w := stack[:hi-lo+1]
	for i := range w {
		w[i] = basis(ip.order, u-float64(lo+i))
	}

	return scale * ip.ops.DotProductUnsafe(w, ip.coeffs[lo:hi+1])
}

// EvaluateSlice writes f(xs[i]) into dst[i]. dst must be at least as long as
// xs. With EnableParallel set, the points are split into chunks evaluated on
// separate goroutines; ctx is checked between chunks.
func (ip *Interpolator) EvaluateSlice(ctx context.Context, xs, dst []float64) error {
	if len(dst) < len(xs) {
		return fmt.Errorf("%w: dst has %d elements, need %d", ErrInvalidConfig, len(dst), len(xs))
	}

	if !ip.parallel || len(xs) <= parallelChunkSize {
		for start := 0; start < len(xs); start += parallelChunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(start+parallelChunkSize, len(xs))
			ip.evaluateRange(xs[start:end], dst[start:end])
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(xs); start += parallelChunkSize {
		end := min(start+parallelChunkSize, len(xs))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ip.evaluateRange(xs[start:end], dst[start:end])
			return nil
		})
	}
	return g.Wait()
}

func (ip *Interpolator) evaluateRange(xs, dst []float64) {
	for i, x := range xs {
		dst[i] = ip.Evaluate(x)
	}
}

// Coefficients returns a copy of the spline coefficients.
func (ip *Interpolator) Coefficients() []float64 {
	return append([]float64(nil), ip.coeffs...)
}

// Order returns the B-spline order.
func (ip *Interpolator) Order() int {
	return ip.order
}

// Support returns the interval outside which f is identically zero.
func (ip *Interpolator) Support() (lo, hi float64) {
	last := float64(len(ip.coeffs) - 1)
	return ip.start - ip.radius*ip.step, ip.start + (last+ip.radius)*ip.step
}

// Len returns the number of samples.
func (ip *Interpolator) Len() int {
	return len(ip.coeffs)
}

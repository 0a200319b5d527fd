// Package engine implements streaming B-spline resampling stages.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-bspline/internal/mathutil"
	"github.com/tphakala/go-bspline/internal/simdops"
	"github.com/tphakala/simd/cpu"
)

// ErrInvalidStage indicates invalid stage parameters.
var ErrInvalidStage = errors.New("invalid B-spline stage parameters")

// BSplineStage resamples a stream with a cardinal B-spline kernel of a fixed
// order. Output sample m sits at input time t = m/ratio and is
//
//	y(t) = Σ_k x_k · s·B_n(s·(t - k))
//
// where s = min(ratio, 1). When upsampling s is 1 and the kernel is the plain
// B-spline, which reproduces constants exactly. When downsampling the kernel is
// stretched by 1/ratio so it also acts as the anti-aliasing filter.
//
// The kernel is centred, so output is aligned with input. Samples before the
// start of the stream count as zero, and Flush pads the end with zeros.
//
// Type parameter F controls the precision of sample processing.
type BSplineStage[F simdops.Float] struct {
	order int
	ratio float64
	scale float64 // kernel compression, min(ratio, 1)
	reach float64 // kernel half-width in input samples

	buf      []F   // retained input, buf[0] is sample number base
	base     int64 // absolute index of buf[0]
	total    int64 // samples received
	produced int64 // samples emitted

	weights  []float64
	weightsF []F
	ops      *simdops.Ops[F]
}

// NewBSplineStage creates a B-spline resampling stage of the given order and
// ratio (output rate / input rate).
func NewBSplineStage[F simdops.Float](order int, ratio float64) (*BSplineStage[F], error) {
	if order < 0 || order > maxStageOrder {
		return nil, fmt.Errorf("%w: order %d outside [0, %d]", ErrInvalidStage, order, maxStageOrder)
	}
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: ratio must be positive and finite, got %v", ErrInvalidStage, ratio)
	}

	scale := min(ratio, 1.0)
	reach := mathutil.SupportRadius(order) / scale
	taps := int(math.Floor(2*reach)) + 1

	return &BSplineStage[F]{
		order:    order,
		ratio:    ratio,
		scale:    scale,
		reach:    reach,
		buf:      make([]F, 0, defaultStageBuffer),
		weights:  make([]float64, taps),
		weightsF: make([]F, taps),
		ops:      simdops.For[F](),
	}, nil
}

// Process resamples input. Output is produced only for positions whose whole
// kernel window has been received; the rest is held until more input or
// Flush arrives.
func (s *BSplineStage[F]) Process(input []F) ([]F, error) {
	if len(input) == 0 {
		return []F{}, nil
	}

	s.buf = append(s.buf, input...)
	s.total += int64(len(input))

	output := make([]F, 0, int(math.Ceil(float64(len(input))*s.ratio))+1)
	for {
		t := s.position()
		if int64(math.Floor(t+s.reach)) >= s.total {
			break
		}
		output = append(output, s.interpolate(t))
		s.produced++
	}

	s.discard()
	return output, nil
}

// Flush emits every remaining output position inside the received input,
// treating samples past the end as zero.
func (s *BSplineStage[F]) Flush() ([]F, error) {
	var output []F
	for {
		t := s.position()
		if t >= float64(s.total) {
			break
		}
		output = append(output, s.interpolate(t))
		s.produced++
	}

	s.discard()
	return output, nil
}

// Reset clears internal state.
func (s *BSplineStage[F]) Reset() {
	s.buf = s.buf[:0]
	s.base = 0
	s.total = 0
	s.produced = 0
}

// position returns the input time of the next output sample.
func (s *BSplineStage[F]) position() float64 {
	return float64(s.produced) / s.ratio
}

// interpolate evaluates the kernel sum at input time t.
func (s *BSplineStage[F]) interpolate(t float64) F {
	lo := max(int64(math.Ceil(t-s.reach)), s.base)
	hi := min(int64(math.Floor(t+s.reach)), s.total-1)
	if hi < lo {
		return 0
	}

	w := s.weights[:hi-lo+1]
	for i := range w {
		d := t - float64(lo+int64(i))
		w[i] = s.scale * mathutil.CardinalBSpline(s.order, s.scale*d)
	}

	s.weightsF = simdops.Weights(s.weightsF, w)
	window := s.buf[lo-s.base : hi-s.base+1]
	return s.ops.DotProductUnsafe(s.weightsF, window)
}

// discard drops input samples that no future output position can reach.
func (s *BSplineStage[F]) discard() {
	keep := int64(math.Ceil(s.position() - s.reach))
	if keep <= s.base {
		return
	}
	drop := min(keep-s.base, int64(len(s.buf)))
	n := copy(s.buf, s.buf[drop:])
	s.buf = s.buf[:n]
	s.base += drop
}

// GetRatio returns the stage's resampling ratio.
func (s *BSplineStage[F]) GetRatio() float64 {
	return s.ratio
}

// GetOrder returns the B-spline order of the kernel.
func (s *BSplineStage[F]) GetOrder() int {
	return s.order
}

// GetLatency returns how many input samples past a position must arrive
// before that position can be emitted.
func (s *BSplineStage[F]) GetLatency() int {
	return int(math.Ceil(s.reach))
}

// GetFilterLength returns the number of input samples the kernel spans.
func (s *BSplineStage[F]) GetFilterLength() int {
	return len(s.weights)
}

// GetMemoryUsage returns approximate memory usage in bytes.
func (s *BSplineStage[F]) GetMemoryUsage() int64 {
	var zero F
	bytesPerElement := int64(bytesPerFloat32)
	if _, ok := any(zero).(float64); ok {
		bytesPerElement = bytesPerFloat64
	}
	return int64(cap(s.buf)+cap(s.weightsF))*bytesPerElement + int64(cap(s.weights))*bytesPerFloat64
}

// GetSIMDInfo returns the SIMD instruction set used for the kernel dot products.
func (s *BSplineStage[F]) GetSIMDInfo() string {
	return cpu.Info()
}

// Package analysis measures the frequency response of cardinal B-spline
// kernels, used as interpolation or resampling filters.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-bspline/internal/mathutil"
	"github.com/tphakala/go-bspline/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidParams indicates invalid analysis parameters.
var ErrInvalidParams = errors.New("invalid response parameters")

// Response is the magnitude response of B_n sampled at Oversample points per
// unit and zero-padded to an FFT of Size points.
type Response struct {
	Order      int
	Oversample int
	Size       int

	// Freq[k] is the frequency of bin k in cycles per input sample.
	Freq []float64

	// Magnitude[k] is |H(Freq[k])|, normalized so the continuous kernel has
	// unit area.
	Magnitude []float64

	// DCGain is the sum of the sampled kernel divided by Oversample.
	DCGain float64
}

// KernelResponse computes the response of B_order. size must be a power of
// two no smaller than the sampled kernel.
func KernelResponse(order, oversample, size int) (*Response, error) {
	if order < 0 || order > maxOrder {
		return nil, fmt.Errorf("%w: order %d outside [0, %d]", ErrInvalidParams, order, maxOrder)
	}
	if oversample < 1 || oversample > maxOversample {
		return nil, fmt.Errorf("%w: oversample %d outside [1, %d]", ErrInvalidParams, oversample, maxOversample)
	}
	if size < minFFTSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: FFT size %d must be a power of two >= %d", ErrInvalidParams, size, minFFTSize)
	}

	kernel := SampleKernel(order, oversample)
	if len(kernel) > size {
		return nil, fmt.Errorf("%w: kernel needs %d points, FFT size is %d", ErrInvalidParams, len(kernel), size)
	}

	padded := make([]float64, size)
	copy(padded, kernel)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)

	r := &Response{
		Order:      order,
		Oversample: oversample,
		Size:       size,
		Freq:       make([]float64, len(coeffs)),
		Magnitude:  make([]float64, len(coeffs)),
		DCGain:     floats.Sum(kernel),
	}
	for k, c := range coeffs {
		r.Freq[k] = fft.Freq(k) * float64(oversample)
		r.Magnitude[k] = cmplx.Abs(c)
	}

	return r, nil
}

// SampleKernel returns B_order(x) at x = j/oversample over the closed support,
// scaled by 1/oversample so the samples sum to the kernel area. The box keeps
// its half-valued endpoints.
func SampleKernel(order, oversample int) []float64 {
	radius := mathutil.SupportRadius(order)
	m := float64(oversample)

	first := int(math.Ceil(-radius * m))
	last := int(math.Floor(radius * m))

	kernel := make([]float64, 0, last-first+1)
	for j := first; j <= last; j++ {
		kernel = append(kernel, mathutil.CardinalBSpline(order, float64(j)/m))
	}
	simdops.Float64Ops().Scale(kernel, kernel, 1/m)
	return kernel
}

// Theoretical returns the magnitude of the continuous Fourier transform of
// B_order at f cycles per sample: |sinc(f)|^(order+1).
func Theoretical(order int, f float64) float64 {
	if f == 0 {
		return 1
	}
	x := math.Pi * f
	return math.Pow(math.Abs(math.Sin(x)/x), float64(order+1))
}

// MagnitudeAt returns the magnitude of the bin nearest to f.
func (r *Response) MagnitudeAt(f float64) float64 {
	step := float64(r.Oversample) / float64(r.Size)
	k := int(math.Round(f / step))
	k = max(0, min(k, len(r.Magnitude)-1))
	return r.Magnitude[k]
}

// CutoffFrequency returns the first frequency where the magnitude falls
// below the given level, interpolating linearly between bins. It returns the
// highest analysed frequency if the response never drops that low.
func (r *Response) CutoffFrequency(level float64) float64 {
	for k := 1; k < len(r.Magnitude); k++ {
		if r.Magnitude[k] < level {
			m0, m1 := r.Magnitude[k-1], r.Magnitude[k]
			frac := (m0 - level) / (m0 - m1)
			return r.Freq[k-1] + frac*(r.Freq[k]-r.Freq[k-1])
		}
	}
	return r.Freq[len(r.Freq)-1]
}

// DB converts a magnitude to decibels, clamped at floorDB.
func DB(magnitude float64) float64 {
	if magnitude <= 0 {
		return floorDB
	}
	return max(dbScale*math.Log10(magnitude), floorDB)
}

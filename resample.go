package bspline

import (
	"errors"
	"fmt"
	"math"
)

// Resampler is the streaming interface for B-spline sample-rate conversion.
type Resampler interface {
	// Process resamples a mono audio channel.
	// The input slice contains audio samples at the input rate.
	// Returns resampled audio at the output rate.
	Process(input []float64) ([]float64, error)

	// ProcessFloat32 is like Process but for float32 samples.
	ProcessFloat32(input []float32) ([]float32, error)

	// ProcessMulti processes multiple audio channels simultaneously.
	// Each slice in the input represents one channel.
	ProcessMulti(input [][]float64) ([][]float64, error)

	// Flush returns any remaining samples of the first channel.
	// Should be called when no more input will be provided.
	Flush() ([]float64, error)

	// FlushMulti returns the remaining samples of every channel.
	FlushMulti() ([][]float64, error)

	// GetLatency returns how many input samples past a position must
	// arrive before the output at that position is emitted.
	GetLatency() int

	// Reset clears all internal state and buffers.
	Reset()

	// GetRatio returns the resampling ratio (output_rate / input_rate).
	GetRatio() float64
}

// ResamplerConfig holds resampling configuration.
type ResamplerConfig struct {
	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Order is the B-spline order of the kernel. Zero selects the box
	// (sample-and-hold); DefaultOrder is cubic.
	Order int

	// EnableParallel enables parallel channel processing.
	// When true, multiple channels are processed concurrently using goroutines.
	// Has no effect on mono audio.
	EnableParallel bool
}

// Common errors.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid bspline configuration")

	// ErrInvalidOrder indicates a B-spline order outside the supported range.
	ErrInvalidOrder = errors.New("invalid B-spline order")

	// ErrNotEnoughSamples indicates too few samples to build an interpolator.
	ErrNotEnoughSamples = errors.New("not enough samples")

	// ErrInvalidSample indicates a NaN or infinite input sample.
	ErrInvalidSample = errors.New("sample is not finite")
)

// Validate checks if the configuration is valid.
func (c *ResamplerConfig) Validate() error {
	if !(c.InputRate > 0) || !(c.OutputRate > 0) || math.IsInf(c.InputRate, 0) || math.IsInf(c.OutputRate, 0) {
		return fmt.Errorf("%w: sample rates must be positive and finite", ErrInvalidConfig)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	ratio := c.OutputRate / c.InputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	return validateOrder(c.Order)
}

func validateOrder(order int) error {
	if order < 0 || order > MaxOrder {
		return fmt.Errorf("%w: %d outside [0, %d]", ErrInvalidOrder, order, MaxOrder)
	}
	return nil
}

// NewResampler creates a streaming B-spline resampler with one kernel stage
// per channel.
func NewResampler(config *ResamplerConfig) (Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return newConstantRateResampler(config, config.OutputRate/config.InputRate)
}

// Info returns information about the resampler implementation.
type Info struct {
	// Algorithm describes the resampling algorithm in use.
	Algorithm string

	// Order is the B-spline order of the kernel.
	Order int

	// FilterLength is the number of input samples the kernel spans.
	FilterLength int

	// Latency is the processing latency in samples.
	Latency int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// infoProvider is an optional interface for resamplers that can provide detailed info.
type infoProvider interface {
	GetInfo() Info
}

// GetInfo returns information about a resampler.
// If the resampler implements the infoProvider interface, it returns actual values.
// Otherwise, it returns basic info based on the resampler's public methods.
func GetInfo(r Resampler) Info {
	if provider, ok := r.(infoProvider); ok {
		return provider.GetInfo()
	}

	return Info{
		Algorithm: "unknown",
		Latency:   r.GetLatency(),
		SIMDType:  "none",
	}
}

package bspline

import (
	"fmt"

	"github.com/tphakala/go-bspline/internal/engine"
	"golang.org/x/sync/errgroup"
)

// constantRateResampler implements fixed-ratio resampling with one
// B-spline stage per channel. It is not safe for concurrent use.
type constantRateResampler struct {
	config ResamplerConfig
	ratio  float64

	// Per-channel state
	channels []*engine.BSplineStage[float64]
}

// newConstantRateResampler creates a new constant-rate resampler.
func newConstantRateResampler(config *ResamplerConfig, ratio float64) (*constantRateResampler, error) {
	r := &constantRateResampler{
		config:   *config,
		ratio:    ratio,
		channels: make([]*engine.BSplineStage[float64], config.Channels),
	}

	for i := range r.channels {
		stage, err := engine.NewBSplineStage[float64](config.Order, ratio)
		if err != nil {
			return nil, fmt.Errorf("failed to create stage for channel %d: %w", i, err)
		}
		r.channels[i] = stage
	}

	return r, nil
}

// Process resamples mono audio through the first channel.
func (r *constantRateResampler) Process(input []float64) ([]float64, error) {
	return r.processChannel(0, input)
}

// ProcessFloat32 resamples float32 audio data.
// Internally converts to float64 for processing, then converts back, so the
// streaming state is shared with Process.
func (r *constantRateResampler) ProcessFloat32(input []float32) ([]float32, error) {
	input64 := make([]float64, len(input))
	for i, v := range input {
		input64[i] = float64(v)
	}

	output64, err := r.Process(input64)
	if err != nil {
		return nil, err
	}

	output32 := make([]float32, len(output64))
	for i, v := range output64 {
		output32[i] = float32(v)
	}

	return output32, nil
}

// ProcessMulti processes multiple audio channels.
// When EnableParallel is true in config, channels are processed concurrently.
// Otherwise, channels are processed sequentially.
func (r *constantRateResampler) ProcessMulti(input [][]float64) ([][]float64, error) {
	if len(input) != r.config.Channels {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrInvalidConfig, r.config.Channels, len(input))
	}

	return r.eachChannel(func(ch int) ([]float64, error) {
		return r.processChannel(ch, input[ch])
	})
}

// processChannel runs one channel's stage.
func (r *constantRateResampler) processChannel(channel int, input []float64) ([]float64, error) {
	output, err := r.channels[channel].Process(input)
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", channel, err)
	}
	return output, nil
}

// eachChannel calls fn for every channel, concurrently when EnableParallel
// is set, and collects the results in channel order.
func (r *constantRateResampler) eachChannel(fn func(ch int) ([]float64, error)) ([][]float64, error) {
	output := make([][]float64, len(r.channels))

	if !r.config.EnableParallel || len(r.channels) <= 1 {
		for ch := range r.channels {
			result, err := fn(ch)
			if err != nil {
				return nil, err
			}
			output[ch] = result
		}
		return output, nil
	}

	// Each goroutine owns one stage and one output slot.
	var g errgroup.Group
	for ch := range r.channels {
		g.Go(func() error {
			result, err := fn(ch)
			if err != nil {
				return err
			}
			output[ch] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return output, nil
}

// Flush returns the remaining samples of the first channel.
func (r *constantRateResampler) Flush() ([]float64, error) {
	output, err := r.channels[0].Flush()
	if err != nil {
		return nil, fmt.Errorf("channel 0 flush error: %w", err)
	}
	return output, nil
}

// FlushMulti returns the remaining samples of every channel.
func (r *constantRateResampler) FlushMulti() ([][]float64, error) {
	return r.eachChannel(func(ch int) ([]float64, error) {
		output, err := r.channels[ch].Flush()
		if err != nil {
			return nil, fmt.Errorf("channel %d flush error: %w", ch, err)
		}
		return output, nil
	})
}

// GetLatency returns the kernel latency in input samples.
func (r *constantRateResampler) GetLatency() int {
	return r.channels[0].GetLatency()
}

// Reset clears all internal state.
func (r *constantRateResampler) Reset() {
	for _, stage := range r.channels {
		stage.Reset()
	}
}

// GetRatio returns the resampling ratio.
func (r *constantRateResampler) GetRatio() float64 {
	return r.ratio
}

// GetInfo returns information about the resampler.
func (r *constantRateResampler) GetInfo() Info {
	primary := r.channels[0]

	var memUsage int64
	for _, stage := range r.channels {
		memUsage += stage.GetMemoryUsage()
	}

	return Info{
		Algorithm:    "bspline",
		Order:        primary.GetOrder(),
		FilterLength: primary.GetFilterLength(),
		Latency:      primary.GetLatency(),
		MemoryUsage:  memUsage,
		SIMDType:     primary.GetSIMDInfo(),
	}
}

package bspline

import "github.com/tphakala/go-bspline/internal/engine"

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// NewCDtoDAT creates a mono resampler for CD (44.1kHz) to DAT (48kHz) conversion.
func NewCDtoDAT(order int) (Resampler, error) {
	return NewResampler(&ResamplerConfig{
		InputRate:  RateCD,
		OutputRate: RateDAT,
		Channels:   1,
		Order:      order,
	})
}

// NewDATtoCD creates a mono resampler for DAT (48kHz) to CD (44.1kHz) conversion.
func NewDATtoCD(order int) (Resampler, error) {
	return NewResampler(&ResamplerConfig{
		InputRate:  RateDAT,
		OutputRate: RateCD,
		Channels:   1,
		Order:      order,
	})
}

// NewSimple creates a mono cubic resampler.
func NewSimple(inputRate, outputRate float64) (Resampler, error) {
	return NewResampler(&ResamplerConfig{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   1,
		Order:      DefaultOrder,
	})
}

// NewStereo creates a stereo resampler whose channels run in parallel.
func NewStereo(inputRate, outputRate float64, order int) (Resampler, error) {
	return NewResampler(&ResamplerConfig{
		InputRate:      inputRate,
		OutputRate:     outputRate,
		Channels:       stereoChannels,
		Order:          order,
		EnableParallel: true,
	})
}

// ResampleMono is a convenience function for one-shot mono resampling.
// It creates a resampler, processes the input, flushes, and returns the result.
func ResampleMono(input []float64, inputRate, outputRate float64, order int) ([]float64, error) {
	r, err := NewResampler(&ResamplerConfig{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   1,
		Order:      order,
	})
	if err != nil {
		return nil, err
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, err
	}

	flushed, err := r.Flush()
	if err != nil {
		return nil, err
	}

	return append(output, flushed...), nil
}

// ResampleStereo is a convenience function for one-shot stereo resampling.
func ResampleStereo(left, right []float64, inputRate, outputRate float64, order int) (leftOut, rightOut []float64, err error) {
	r, err := NewStereo(inputRate, outputRate, order)
	if err != nil {
		return nil, nil, err
	}

	out, err := r.ProcessMulti([][]float64{left, right})
	if err != nil {
		return nil, nil, err
	}

	tail, err := r.FlushMulti()
	if err != nil {
		return nil, nil, err
	}

	return append(out[0], tail[0]...), append(out[1], tail[1]...), nil
}

// SimpleResamplerFloat32 is a mono resampler that keeps samples in float32
// end to end, so kernel dot products run on the float32 SIMD path.
type SimpleResamplerFloat32 struct {
	stage *engine.BSplineStage[float32]
}

// NewEngineFloat32 creates a SimpleResamplerFloat32 using the engine directly.
func NewEngineFloat32(inputRate, outputRate float64, order int) (*SimpleResamplerFloat32, error) {
	config := &ResamplerConfig{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   1,
		Order:      order,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stage, err := engine.NewBSplineStage[float32](order, outputRate/inputRate)
	if err != nil {
		return nil, err
	}
	return &SimpleResamplerFloat32{stage: stage}, nil
}

// Process resamples the input samples.
func (r *SimpleResamplerFloat32) Process(input []float32) ([]float32, error) {
	return r.stage.Process(input)
}

// Flush returns any remaining buffered samples as float32.
func (r *SimpleResamplerFloat32) Flush() ([]float32, error) {
	return r.stage.Flush()
}

// Reset clears internal state, allowing the resampler to be reused.
func (r *SimpleResamplerFloat32) Reset() {
	r.stage.Reset()
}

// GetRatio returns the resampling ratio (outputRate / inputRate).
func (r *SimpleResamplerFloat32) GetRatio() float64 {
	return r.stage.GetRatio()
}

// ResampleMonoFloat32 is the float32 equivalent of ResampleMono.
func ResampleMonoFloat32(input []float32, inputRate, outputRate float64, order int) ([]float32, error) {
	r, err := NewEngineFloat32(inputRate, outputRate, order)
	if err != nil {
		return nil, err
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, err
	}

	flushed, err := r.Flush()
	if err != nil {
		return nil, err
	}

	return append(output, flushed...), nil
}

// Interleave converts planar channels into one interleaved slice
// [c0[0], c1[0], ..., c0[1], c1[1], ...]. The result is as long as the
// shortest channel allows.
func Interleave[F float32 | float64](channels ...[]F) []F {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}

	result := make([]F, frames*len(channels))
	for i := range frames {
		for c, ch := range channels {
			result[i*len(channels)+c] = ch[i]
		}
	}
	return result
}

// Deinterleave splits interleaved samples into numChannels planar slices.
// A trailing partial frame is dropped.
func Deinterleave[F float32 | float64](interleaved []F, numChannels int) [][]F {
	if numChannels < 1 {
		return nil
	}

	frames := len(interleaved) / numChannels
	result := make([][]F, numChannels)
	for c := range result {
		result[c] = make([]F, frames)
		for i := range frames {
			result[c][i] = interleaved[i*numChannels+c]
		}
	}
	return result
}

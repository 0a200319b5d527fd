package bspline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewEngineFloat32 verifies that NewEngineFloat32 validates like NewResampler.
func TestNewEngineFloat32(t *testing.T) {
	tests := []struct {
		name       string
		inputRate  float64
		outputRate float64
		order      int
		wantErr    error
	}{
		{"CD_to_DAT_cubic", RateCD, RateDAT, 3, nil},
		{"2x_Downsample_quintic", RateHiRes96, RateDAT, 5, nil},
		{"box", RateVoIP, RateDAT, 0, nil},
		{"bad_order", RateCD, RateDAT, MaxOrder + 1, ErrInvalidOrder},
		{"bad_rate", 0, RateDAT, 3, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewEngineFloat32(tt.inputRate, tt.outputRate, tt.order)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.outputRate/tt.inputRate, r.GetRatio(), 1e-12)
			r.Reset()
		})
	}
}

// TestResampleMonoFloat32 tests the float32 one-shot path against float64.
func TestResampleMonoFloat32(t *testing.T) {
	input := multiSine(1, 3000, RateCD)[0]
	input32 := make([]float32, len(input))
	for i, v := range input {
		input32[i] = float32(v)
	}

	want, err := ResampleMono(input, RateCD, RateDAT, DefaultOrder)
	require.NoError(t, err)
	got, err := ResampleMonoFloat32(input32, RateCD, RateDAT, DefaultOrder)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], float64(got[i]), 1e-5, "i=%d", i)
	}
}

// TestResampleStereo tests that each channel matches mono resampling.
func TestResampleStereo(t *testing.T) {
	in := multiSine(2, 2205, RateCD)

	left, right, err := ResampleStereo(in[0], in[1], RateCD, RateDAT, 4)
	require.NoError(t, err)

	wantLeft, err := ResampleMono(in[0], RateCD, RateDAT, 4)
	require.NoError(t, err)
	wantRight, err := ResampleMono(in[1], RateCD, RateDAT, 4)
	require.NoError(t, err)

	diff(t, wantLeft, left)
	diff(t, wantRight, right)
}

// TestNewSimple tests the cubic mono constructor.
func TestNewSimple(t *testing.T) {
	r, err := NewSimple(RateDAT, RateHiRes96)
	require.NoError(t, err)
	assert.Equal(t, DefaultOrder, GetInfo(r).Order)
	assert.InDelta(t, 2.0, r.GetRatio(), 0)
}

// TestInterleave tests round trips through interleaved layout.
func TestInterleave(t *testing.T) {
	left := []float32{1, 2, 3}
	right := []float32{-1, -2, -3, -4}

	inter := Interleave(left, right)
	assert.Equal(t, []float32{1, -1, 2, -2, 3, -3}, inter)

	planar := Deinterleave(inter, 2)
	assert.Equal(t, [][]float32{left, right[:3]}, planar)

	surround := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	diff(t, surround, Deinterleave(Interleave(surround...), 3))

	assert.Nil(t, Interleave[float64]())
	assert.Nil(t, Deinterleave([]float64{1, 2}, 0))
	assert.Len(t, Deinterleave([]float64{1, 2, 3}, 2)[0], 1)
}

// TestResampleMono_Upsample2x tests that a cubic 2x upsampler follows a slow
// sine within the kernel's passband droop.
func TestResampleMono_Upsample2x(t *testing.T) {
	const period = 200.0
	input := make([]float64, 2000)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}

	out, err := ResampleMono(input, RateDAT, RateHiRes96, DefaultOrder)
	require.NoError(t, err)

	want := make([]float64, len(out))
	for m := range want {
		want[m] = math.Sin(2 * math.Pi * float64(m) / (2 * period))
	}

	// Cubic smoothing attenuates a 200-sample period by under 0.02%.
	diff(t, want[20:len(want)-20], out[20:len(out)-20], cmpopts.EquateApprox(0, 2e-3))
}

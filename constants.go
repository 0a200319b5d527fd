package bspline

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Order constants
const (
	// DefaultOrder is the cubic B-spline, the usual trade-off between
	// smoothness and kernel width.
	DefaultOrder = 3

	// MaxOrder is the highest order accepted by interpolators and resamplers.
	MaxOrder = 16

	// Largest number of coefficients a single evaluation touches:
	// the open support (-(n+1)/2, (n+1)/2) holds at most n+1 integers.
	maxWindow = MaxOrder + 1
)

// Resampling ratio limits
const (
	minRatioFactor = 1.0 / 256.0 // Minimum resampling ratio (1/256)
	maxRatioFactor = 256.0       // Maximum resampling ratio (256x)
)

// Interpolation constants
const (
	defaultStep = 1.0 // Sample spacing when Config.Step is zero
	minSamples  = 1   // Fewest samples an interpolator accepts

	// Points per goroutine in EvaluateSlice
	parallelChunkSize = 4096
)

package main

// Output formats
const (
	formatText = "text"
	formatYAML = "yaml"
)

// Evaluation constants
const (
	minDoublePrimeOrder = 3 // Lowest order with a second derivative

	defaultTableRange = 2.0  // Default table spans [-2, 2]
	defaultTableStep  = 0.25 // Default table spacing
	maxTableRows      = 1_000_000
	rangeSlack        = 1e-9 // Keeps `to` in the table despite rounding
	tabWidth          = 8
)

// Response defaults
const (
	defaultOversample = 64
	defaultBins       = 4096
	defaultMaxFreq    = 2.0 // Cycles per sample shown by the response command
)

// Resampling constants
const (
	// Frames per chunk read from the decoder
	bufferSize = 65536

	kHzToHz        = 1000
	defaultRateKHz = 48.0

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Full-scale values for int PCM
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1 // WAVE_FORMAT_PCM

	progressInterval = 10 // Log progress every N%
	percentScale     = 100
)

package analysis

// Parameter limits
const (
	maxOrder      = 16
	maxOversample = 1024
	minFFTSize    = 8
)

// Decibel conversion
const (
	dbScale = 20.0   // Amplitude ratio to dB
	floorDB = -300.0 // Reported level for zero magnitude

	// HalfPower is the -3 dB amplitude level, 1/√2.
	HalfPower = 0.7071067811865476
)

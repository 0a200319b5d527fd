package engine

// B-spline stage constants
const (
	// Highest kernel order a stage accepts; keeps evaluation on the
	// stack-buffer path of the recurrence
	maxStageOrder = 16

	// Initial capacity of the retained-input buffer (samples)
	defaultStageBuffer = 4096
)

// Byte sizes for float types.
const (
	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)

package field

import "errors"

// Precondition errors returned by Compute before any pixel is written.
var (
	// ErrDimensions indicates a non-positive grid width or height.
	ErrDimensions = errors.New("field: grid dimensions must be positive")

	// ErrBufferSize indicates an output buffer smaller than width*height.
	ErrBufferSize = errors.New("field: output buffer smaller than grid")

	// ErrCutsShort indicates fewer cuts than iterations.
	ErrCutsShort = errors.New("field: fewer cuts than max iterations")

	// ErrIterations indicates a non-positive iteration cap.
	ErrIterations = errors.New("field: max iterations must be positive")
)

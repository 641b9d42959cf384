package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates a driver missing a schedule, palette, or cuts.
	ErrNotConfigured = errors.New("render: driver not configured")

	// ErrSettings indicates unusable driver settings.
	ErrSettings = errors.New("render: invalid settings")

	// ErrFinished indicates a step past the last frame.
	ErrFinished = errors.New("render: sequence finished")
)

// FrameError wraps a failure with the frame and stage it happened in.
type FrameError struct {
	Frame   int
	Stage   string
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Frame, e.Stage, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

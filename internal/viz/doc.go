// Package viz provides terminal output for fractal renders.
//
// The package implements a live progress view using the Bubble Tea framework:
//
//   - [ProgressModel]: progress bar, current pose and a sparkline of the
//     mean escape value per frame
//   - [RunWithProgress]: runs a render behind the live view
//   - [Canvas]: Braille-based dot canvas for single-frame previews
//
// # Key Bindings
//
//	q, ctrl+c - Cancel the render and exit
//
// Output written before cancellation is kept; the encoder is closed as usual.
package viz

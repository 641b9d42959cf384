// Package field computes escape-time fields over a pixel grid.
//
// The iteration is a generalized power map z -> z^p + c written in polar form,
// with a per-iteration angular cut folded into the phase before it is scaled:
//
//   - [EscapeTime]: orbit of a single starting point
//   - [Compute]: smooth escape value for every pixel of a grid
//   - [ComputeParallel]: the same grid split across goroutines by rows
//
// # Example
//
//	out := make([]float64, w*h)
//	p := field.Params{Width: w, Height: h, Exponent: 2, MaxIterations: 256, Cuts: cuts}
//	if err := field.Compute(out, p); err != nil {
//	    return err
//	}
//
// # Numeric Behavior
//
// Arithmetic is never checked. An exponent of 0 or ±1 makes the smooth
// correction divide by log(1) == 0, and overflowing orbits produce Inf; those
// values are written to the grid as they are. Only buffer preconditions are
// validated, before any pixel is touched.
package field

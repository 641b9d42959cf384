package field

import (
	"fmt"
	"math"
)

// EscapeRadiusSq is the squared magnitude past which an orbit has escaped.
const EscapeRadiusSq = 10000.0

// Params describes one field evaluation. Cuts is read, never written.
type Params struct {
	Width, Height int
	CenterX       float64
	CenterY       float64
	Zoom          float64
	Exponent      float64
	MaxIterations int
	Cuts          []float64
}

// Pixels returns the number of cells in the grid.
func (p Params) Pixels() int {
	return p.Width * p.Height
}

// Scale returns the plane distance covered by half a pixel step.
func (p Params) Scale() float64 {
	return math.Pow(2, -p.Zoom) / float64(p.Height)
}

// PlanePoint maps pixel (px, py) to its starting point in the complex plane.
func (p Params) PlanePoint(px, py int) (x, y float64) {
	scale := p.Scale()
	x = (2*float64(px)-float64(p.Width))*scale + p.CenterX
	y = (2*float64(py)-float64(p.Height))*scale + p.CenterY
	return x, y
}

func (p Params) validate(out []float64) error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, p.Width, p.Height)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: %d", ErrIterations, p.MaxIterations)
	}
	if len(out) < p.Pixels() {
		return fmt.Errorf("%w: have %d, need %d", ErrBufferSize, len(out), p.Pixels())
	}
	if len(p.Cuts) < p.MaxIterations {
		return fmt.Errorf("%w: have %d, need %d", ErrCutsShort, len(p.Cuts), p.MaxIterations)
	}
	return nil
}

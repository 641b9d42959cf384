package field

import "math"

const (
	tau    = 2 * math.Pi
	invTau = 1 / tau
)

// EscapeTime iterates the cut power map from (x0, y0) and returns the
// iteration at which the squared magnitude first exceeds EscapeRadiusSq,
// together with the orbit point at that moment. An orbit that never escapes
// returns maxIter and its last point.
func EscapeTime(x0, y0, exponent float64, cuts []float64, maxIter int) (int, float64, float64) {
	x, y := x0, y0
	half := exponent * 0.5
	for i := 0; i < maxIter; i++ {
		mag := x*x + y*y
		if mag > EscapeRadiusSq {
			return i, x, y
		}
		cut := cuts[i]
		phase := (math.Atan2(y, x) + cut) * invTau
		phase = ((phase-math.Floor(phase))*tau - cut) * exponent
		mag = math.Pow(mag, half)
		sin, cos := math.Sincos(phase)
		x = cos*mag + x0
		y = sin*mag + y0
	}
	return maxIter, x, y
}

// Smooth turns an escape iteration into a continuous value using the final
// orbit point. Values of maxIter are returned unchanged.
func Smooth(iter, maxIter int, x, y, exponent float64) float64 {
	v := float64(iter)
	if iter < maxIter {
		v -= math.Log(math.Log(x*x+y*y)*0.5) / math.Log(math.Abs(exponent))
	}
	return v
}

// Compute overwrites out[:width*height] with the smooth escape value of every
// pixel in row-major order.
func Compute(out []float64, p Params) error {
	if err := p.validate(out); err != nil {
		return err
	}
	computeRows(out, p, 0, p.Height)
	return nil
}

func computeRows(out []float64, p Params, rowStart, rowEnd int) {
	scale := p.Scale()
	w, h := float64(p.Width), float64(p.Height)
	for py := rowStart; py < rowEnd; py++ {
		y0 := (2*float64(py)-h)*scale + p.CenterY
		row := out[py*p.Width : (py+1)*p.Width]
		for px := range row {
			x0 := (2*float64(px)-w)*scale + p.CenterX
			iter, x, y := EscapeTime(x0, y0, p.Exponent, p.Cuts, p.MaxIterations)
			row[px] = Smooth(iter, p.MaxIterations, x, y, p.Exponent)
		}
	}
}

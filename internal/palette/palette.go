// Package palette turns an escape field into RGB frames.
package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// DitherAmplitude is the peak uniform noise added to each channel before
// quantization.
const DitherAmplitude = 1.0 / 256.0

// ErrFieldSize indicates a field shorter than the frame it colors.
var ErrFieldSize = errors.New("palette: field smaller than frame")

// Frame is a row-major RGB image, three bytes per pixel.
type Frame struct {
	Width, Height int
	Pix           []byte
}

// NewFrame allocates a black frame.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

// At returns the RGB triple of pixel (x, y).
func (f Frame) At(x, y int) (r, g, b byte) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Policy maps a field onto a frame of the same grid size. rng supplies
// dither noise and may be nil to disable dithering.
type Policy interface {
	Name() string
	Colorize(dst Frame, field []float64, rng *rand.Rand) error
}

const (
	GrayscaleName = "grayscale"
	TwoToneName   = "two-tone"
)

var policies = map[string]func() Policy{
	GrayscaleName: func() Policy { return Grayscale{} },
	TwoToneName:   func() Policy { return NewTwoTone() },
}

// Get returns the named policy.
func Get(name string) (Policy, error) {
	fn, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette: %s (available: %v)", name, List())
	}
	return fn(), nil
}

// List returns the registered palette names, sorted.
func List() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkSize(dst Frame, field []float64) error {
	n := dst.Width * dst.Height
	if len(field) < n || len(dst.Pix) < n*3 {
		return fmt.Errorf("%w: field %d, frame %dx%d", ErrFieldSize, len(field), dst.Width, dst.Height)
	}
	return nil
}

func dither(rng *rand.Rand) float64 {
	if rng == nil {
		return 0
	}
	return rng.Float64() * DitherAmplitude
}

// quantize clips v to [0, 1] and scales it to a byte. NaN maps to 0.
func quantize(v float64) byte {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}

// framePeak returns the largest of f(v) over field, or of v when f is nil.
// Any NaN makes the peak NaN and an infinity makes it infinite, which turns
// the normalized frame NaN or zero.
func framePeak(field []float64, f func(float64) float64) float64 {
	peak := math.Inf(-1)
	for _, v := range field {
		if f != nil {
			v = f(v)
		}
		if math.IsNaN(v) {
			return v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Grayscale maps sqrt(|v|/max|v|) to equal RGB channels.
type Grayscale struct{}

func (Grayscale) Name() string { return GrayscaleName }

func (Grayscale) Colorize(dst Frame, field []float64, rng *rand.Rand) error {
	if err := checkSize(dst, field); err != nil {
		return err
	}
	n := dst.Width * dst.Height

	peak := framePeak(field[:n], math.Abs)

	for i, v := range field[:n] {
		level := math.Sqrt(math.Abs(v) / peak)
		p := dst.Pix[i*3 : i*3+3]
		for c := range p {
			p[c] = quantize(level + dither(rng))
		}
	}
	return nil
}

// RGB is a color with channels in [0, 1].
type RGB struct{ R, G, B float64 }

// TwoTone splits pixels into a flat background (negative and NaN values) and
// a foreground whose normalized level is bent through polynomial channel mixes.
type TwoTone struct {
	Background RGB
}

func NewTwoTone() TwoTone {
	return TwoTone{Background: RGB{0.05, 0.07, 0.12}}
}

func (TwoTone) Name() string { return TwoToneName }

// Foreground returns the color of a normalized foreground level.
func (TwoTone) Foreground(level float64) RGB {
	r := level
	g := level * level
	b := math.Sqrt(level)

	b += 0.2 * g
	r = 0.1 + 0.8*r + g*g*g
	g = 0.85*g + 0.1*b
	return RGB{r, g, b}
}

func (t TwoTone) Colorize(dst Frame, field []float64, rng *rand.Rand) error {
	if err := checkSize(dst, field); err != nil {
		return err
	}
	n := dst.Width * dst.Height

	peak := framePeak(field[:n], nil)

	for i, v := range field[:n] {
		c := t.Background
		if v >= 0 {
			c = t.Foreground(v / peak)
		}

		p := dst.Pix[i*3 : i*3+3]
		p[0] = quantize(c.R + dither(rng))
		p[1] = quantize(c.G + dither(rng))
		p[2] = quantize(c.B + dither(rng))
	}
	return nil
}

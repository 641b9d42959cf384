package field

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func zeroCuts(n int) []float64 { return make([]float64, n) }

func spreadCuts(n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 37*math.Sin(float64(i)*1.3) + 0.5
	}
	return c
}

func TestEscapeTime_ImmediateEscape(t *testing.T) {
	tests := []struct {
		name   string
		x0, y0 float64
	}{
		{"far right", 200, 0},
		{"far left", -150, 20},
		{"far diagonal", 80, -80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iter, x, y := EscapeTime(tt.x0, tt.y0, 2, spreadCuts(16), 16)
			if iter != 0 {
				t.Fatalf("expected escape at iteration 0, got %d", iter)
			}
			if x != tt.x0 || y != tt.y0 {
				t.Errorf("orbit moved before escaping: (%v, %v)", x, y)
			}
			if v := Smooth(iter, 16, x, y, 2); v >= 1 {
				t.Errorf("expected smooth value < 1, got %v", v)
			}
		})
	}
}

func TestEscapeTime_OriginNeverEscapes(t *testing.T) {
	for _, maxIter := range []int{1, 10, 256, 4096} {
		iter, x, y := EscapeTime(0, 0, 2, zeroCuts(maxIter), maxIter)
		if iter != maxIter {
			t.Errorf("maxIter=%d: origin escaped at %d", maxIter, iter)
		}
		if x != 0 || y != 0 {
			t.Errorf("maxIter=%d: origin orbit moved to (%v, %v)", maxIter, x, y)
		}
	}
}

func TestEscapeTime_ClassicalRecurrence(t *testing.T) {
	// With zero cuts and exponent 2 the map is z*z + c.
	c := complex(-0.4, 0.3)
	z := c
	for i := 0; i < 20; i++ {
		z = z*z + c
	}

	iter, x, y := EscapeTime(real(c), imag(c), 2, zeroCuts(20), 20)
	if iter != 20 {
		t.Fatalf("expected bounded orbit, escaped at %d", iter)
	}
	if math.Abs(x-real(z)) > 1e-9 || math.Abs(y-imag(z)) > 1e-9 {
		t.Errorf("expected (%v, %v), got (%v, %v)", real(z), imag(z), x, y)
	}
}

func TestSmooth(t *testing.T) {
	if v := Smooth(64, 64, 1, 1, 2); v != 64 {
		t.Errorf("non-escaped value should be unmodified, got %v", v)
	}

	// log(log(e^4)/2)/log(2) == log(2)/log(2) == 1
	r := math.Exp(2)
	v := Smooth(5, 64, r, 0, 2)
	if math.Abs(v-4) > 1e-12 {
		t.Errorf("expected 4, got %v", v)
	}

	v = Smooth(5, 64, r, 0, -2)
	if math.Abs(v-4) > 1e-12 {
		t.Errorf("negative exponent should use |exponent|, got %v", v)
	}

	if v := Smooth(3, 64, 200, 0, 1); !math.IsInf(v, 0) {
		t.Errorf("exponent 1 should divide by zero, got %v", v)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	p := Params{
		Width: 48, Height: 27,
		CenterX: -0.3, CenterY: 0.1,
		Zoom: 0.5, Exponent: 2.7,
		MaxIterations: 128,
		Cuts:          spreadCuts(128),
	}

	a := make([]float64, p.Pixels())
	b := make([]float64, p.Pixels())
	for i := range b {
		b[i] = -1
	}
	if err := Compute(a, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if err := Compute(b, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if diff := cmp.Diff(bits(a), bits(b)); diff != "" {
		t.Errorf("repeated compute differs (-first +second):\n%s", diff)
	}
}

func TestComputeParallel_MatchesSerial(t *testing.T) {
	p := Params{
		Width: 64, Height: 37,
		CenterX: 0.2, CenterY: -0.4,
		Zoom: 1, Exponent: 1.5,
		MaxIterations: 96,
		Cuts:          spreadCuts(96),
	}

	serial := make([]float64, p.Pixels())
	if err := Compute(serial, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		par := make([]float64, p.Pixels())
		if err := ComputeParallel(par, p, workers); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if diff := cmp.Diff(bits(serial), bits(par)); diff != "" {
			t.Errorf("workers=%d differs from serial:\n%s", workers, diff)
		}
	}
}

func TestCompute_MonotoneUnderCap(t *testing.T) {
	const low, high = 40, 160
	cuts := spreadCuts(high)
	p := Params{
		Width: 40, Height: 30,
		CenterX: -0.5, Zoom: 0.2, Exponent: 2,
		MaxIterations: low,
		Cuts:          cuts,
	}

	before := make([]float64, p.Pixels())
	if err := Compute(before, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	p.MaxIterations = high
	after := make([]float64, p.Pixels())
	if err := Compute(after, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	for i := range before {
		if before[i] == low {
			x0, y0 := p.PlanePoint(i%p.Width, i/p.Width)
			if iter, _, _ := EscapeTime(x0, y0, p.Exponent, cuts, high); iter < low {
				t.Errorf("pixel %d: trapped under %d but escapes at %d", i, low, iter)
			}
			continue
		}
		if math.Float64bits(before[i]) != math.Float64bits(after[i]) {
			t.Errorf("pixel %d: escaped value changed from %v to %v", i, before[i], after[i])
		}
	}
}

func TestCompute_ClassicalGrid(t *testing.T) {
	const maxIter = 256
	p := Params{
		Width: 71, Height: 40,
		Exponent:      2,
		MaxIterations: maxIter,
		Cuts:          zeroCuts(maxIter),
	}
	out := make([]float64, p.Pixels())
	if err := Compute(out, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	interior := 0
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("pixel %d is not finite: %v", i, v)
		}
		if v == maxIter {
			interior++
		}
	}
	if interior == 0 {
		t.Fatal("expected at least one interior pixel")
	}

	// (35, 20) maps to (-0.025, 0), next to the plane origin.
	if v := out[20*p.Width+35]; v != maxIter {
		t.Errorf("pixel nearest the origin escaped: %v", v)
	}

	corners := [][2]int{{0, 0}, {p.Width - 1, 0}, {0, p.Height - 1}, {p.Width - 1, p.Height - 1}}
	for _, c := range corners {
		v := out[c[1]*p.Width+c[0]]
		if v < 0 || v >= maxIter {
			t.Errorf("corner %v: expected escaped value in [0, %d), got %v", c, maxIter, v)
		}
	}
}

func TestCompute_OverwritesBuffer(t *testing.T) {
	p := Params{Width: 5, Height: 4, Exponent: 2, MaxIterations: 8, Cuts: zeroCuts(8)}
	out := make([]float64, p.Pixels()+3)
	for i := range out {
		out[i] = math.NaN()
	}
	if err := Compute(out, p); err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	for i := 0; i < p.Pixels(); i++ {
		if math.IsNaN(out[i]) {
			t.Errorf("pixel %d not overwritten", i)
		}
	}
	for i := p.Pixels(); i < len(out); i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("cell %d beyond the grid was written", i)
		}
	}
}

func TestCompute_Preconditions(t *testing.T) {
	good := Params{Width: 4, Height: 3, Exponent: 2, MaxIterations: 8, Cuts: zeroCuts(8)}

	tests := []struct {
		name   string
		mutate func(p *Params) []float64
		want   error
	}{
		{"zero width", func(p *Params) []float64 { p.Width = 0; return make([]float64, 12) }, ErrDimensions},
		{"negative height", func(p *Params) []float64 { p.Height = -1; return make([]float64, 12) }, ErrDimensions},
		{"zero iterations", func(p *Params) []float64 { p.MaxIterations = 0; return make([]float64, 12) }, ErrIterations},
		{"short buffer", func(p *Params) []float64 { return make([]float64, 11) }, ErrBufferSize},
		{"short cuts", func(p *Params) []float64 { p.Cuts = zeroCuts(7); return make([]float64, 12) }, ErrCutsShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := good
			out := tt.mutate(&p)
			if err := Compute(out, p); !errors.Is(err, tt.want) {
				t.Errorf("Compute: expected %v, got %v", tt.want, err)
			}
			if err := ComputeParallel(out, p, 4); !errors.Is(err, tt.want) {
				t.Errorf("ComputeParallel: expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPlanePoint(t *testing.T) {
	p := Params{Width: 80, Height: 40, CenterX: 1, CenterY: -2, Zoom: 1}
	x, y := p.PlanePoint(40, 20)
	if x != 1 || y != -2 {
		t.Errorf("grid center should map to the camera center, got (%v, %v)", x, y)
	}
	x, y = p.PlanePoint(0, 0)
	if math.Abs(x-(1-1)) > 1e-12 || math.Abs(y-(-2-0.5)) > 1e-12 {
		t.Errorf("unexpected corner mapping (%v, %v)", x, y)
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 5, 17, 100} {
		seen := make([]int, n)
		ParallelFor(n, 2, 4, func(start, end int) {
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}

func bits(v []float64) []uint64 {
	b := make([]uint64, len(v))
	for i, f := range v {
		b[i] = math.Float64bits(f)
	}
	return b
}

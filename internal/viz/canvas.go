package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Braille cell, 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Its resolution in dots is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Count returns the number of lit dots.
func (c *Canvas) Count() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			bits := r - brailleBlank
			for bits != 0 {
				n += int(bits & 1)
				bits >>= 1
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// FieldPreview samples a width x height escape field onto a cols x rows braille
// canvas. A dot is lit when the nearest field value is at least threshold;
// non-finite values are left dark.
func FieldPreview(field []float64, width, height, cols, rows int, threshold float64) *Canvas {
	c := NewCanvas(cols, rows)
	if width < 1 || height < 1 || len(field) < width*height {
		return c
	}

	dotsX, dotsY := cols*2, rows*4
	for y := 0; y < dotsY; y++ {
		py := y * height / dotsY
		for x := 0; x < dotsX; x++ {
			px := x * width / dotsX
			v := field[py*width+px]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v >= threshold {
				c.Set(x, y)
			}
		}
	}
	return c
}

// Package export writes previews and camera paths as SVG documents.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/fractalvid/internal/trajectory"
	"github.com/san-kum/fractalvid/internal/viz"
)

const background = "#0a0a0a"

// WriteCanvasSVG draws every lit braille dot of canvas as a circle. Each dot
// occupies a scale x scale square.
func WriteCanvasSVG(w io.Writer, canvas *viz.Canvas, scale float64, fill string) error {
	if canvas == nil {
		return fmt.Errorf("export: nil canvas")
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background, fill)

	radius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
		}
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// WritePathSVG draws the camera centers of poses as a polyline in the complex
// plane, y up, with 10% padding around the bounds.
func WritePathSVG(w io.Writer, poses []trajectory.CameraState, width, height int, stroke string) error {
	if len(poses) < 2 {
		return fmt.Errorf("export: need at least 2 poses, got %d", len(poses))
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range poses {
		minX, maxX = math.Min(minX, p.CenterX), math.Max(maxX, p.CenterX)
		minY, maxY = math.Min(minY, p.CenterY), math.Max(maxY, p.CenterY)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, background, stroke)

	for i, p := range poses {
		x := (p.CenterX - minX) / rangeX * float64(width)
		y := float64(height) - (p.CenterY-minY)/rangeY*float64(height)

		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(bw, "%s%.1f,%.1f", cmd, x, y)
	}

	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}

package encode

import (
	"fmt"
	"image"
	colorpalette "image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/san-kum/fractalvid/internal/palette"
)

// GIF buffers quantized frames and writes the animation on Close.
type GIF struct {
	path   string
	opts   Options
	anim   gif.GIF
	closed bool
}

func NewGIF(path string, opts Options) (*GIF, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	// Fail on an unwritable path before any frame is rendered.
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("encode: create gif: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &GIF{path: path, opts: opts, anim: gif.GIF{LoopCount: 0}}, nil
}

// Delay returns the per-frame delay in hundredths of a second.
func (g *GIF) Delay() int {
	d := 100 / g.opts.FrameRate
	if d < 1 {
		d = 1
	}
	return d
}

func (g *GIF) WriteFrame(f palette.Frame) error {
	if g.closed {
		return ErrClosed
	}
	if err := g.opts.checkFrame(f); err != nil {
		return err
	}
	src := ToRGBA(f)
	img := image.NewPaletted(src.Bounds(), colorpalette.Plan9)
	draw.Draw(img, img.Rect, src, image.Point{}, draw.Src)
	g.anim.Image = append(g.anim.Image, img)
	g.anim.Delay = append(g.anim.Delay, g.Delay())
	return nil
}

// Frames returns the number of buffered frames.
func (g *GIF) Frames() int { return len(g.anim.Image) }

func (g *GIF) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if len(g.anim.Image) == 0 {
		return nil
	}
	f, err := os.Create(g.path)
	if err != nil {
		return fmt.Errorf("encode: create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &g.anim); err != nil {
		return fmt.Errorf("encode: write gif: %w", err)
	}
	return f.Close()
}

package encode

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/san-kum/fractalvid/internal/palette"
)

// PNGSequence writes each frame as dir/frame_NNNNN.png.
type PNGSequence struct {
	dir    string
	opts   Options
	next   int
	closed bool
}

func NewPNGSequence(dir string, opts Options) (*PNGSequence, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("encode: create frame dir: %w", err)
	}
	return &PNGSequence{dir: dir, opts: opts}, nil
}

// FramePath returns the file name used for frame n.
func (p *PNGSequence) FramePath(n int) string {
	return filepath.Join(p.dir, fmt.Sprintf("frame_%05d.png", n))
}

func (p *PNGSequence) WriteFrame(f palette.Frame) error {
	if p.closed {
		return ErrClosed
	}
	if err := p.opts.checkFrame(f); err != nil {
		return err
	}
	out, err := os.Create(p.FramePath(p.next))
	if err != nil {
		return fmt.Errorf("encode: create frame: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, ToRGBA(f)); err != nil {
		return fmt.Errorf("encode: write frame %d: %w", p.next, err)
	}
	p.next++
	return out.Close()
}

func (p *PNGSequence) Close() error {
	p.closed = true
	return nil
}

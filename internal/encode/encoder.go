package encode

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/fractalvid/internal/palette"
)

var (
	// ErrFrameShape indicates a frame whose size differs from the stream's.
	ErrFrameShape = errors.New("encode: frame shape does not match stream")

	// ErrClosed indicates a write after Close.
	ErrClosed = errors.New("encode: encoder closed")

	// ErrOptions indicates unusable stream options.
	ErrOptions = errors.New("encode: invalid options")
)

const (
	DefaultFrameRate = 24
	DefaultQuality   = 10
)

// Encoder consumes frames in order. The frame buffer may be reused by the
// caller after WriteFrame returns.
type Encoder interface {
	WriteFrame(f palette.Frame) error
	Close() error
}

// Options configures an output stream.
type Options struct {
	Width, Height int
	FrameRate     int
	// Quality runs from 0 (smallest) to 10 (best).
	Quality int
	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string
}

func (o Options) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("%w: size %dx%d", ErrOptions, o.Width, o.Height)
	}
	if o.FrameRate < 1 {
		return fmt.Errorf("%w: frame rate %d", ErrOptions, o.FrameRate)
	}
	if o.Quality < 0 || o.Quality > 10 {
		return fmt.Errorf("%w: quality %d outside [0, 10]", ErrOptions, o.Quality)
	}
	return nil
}

func (o Options) checkFrame(f palette.Frame) error {
	if f.Width != o.Width || f.Height != o.Height || len(f.Pix) < f.Width*f.Height*3 {
		return fmt.Errorf("%w: got %dx%d, stream is %dx%d", ErrFrameShape, f.Width, f.Height, o.Width, o.Height)
	}
	return nil
}

// Kind names the encoder Open would pick for a path.
func Kind(path string) string {
	if strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/") {
		return "png"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return "gif"
	case "":
		return "png"
	default:
		return "ffmpeg"
	}
}

// Open creates the encoder matching path.
func Open(path string, opts Options) (Encoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	switch Kind(path) {
	case "gif":
		return NewGIF(path, opts)
	case "png":
		return NewPNGSequence(path, opts)
	default:
		return NewFFmpeg(path, opts)
	}
}

// ToRGBA copies a frame into an image.RGBA.
func ToRGBA(f palette.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	n := f.Width * f.Height
	for i := 0; i < n; i++ {
		copy(img.Pix[i*4:i*4+3], f.Pix[i*3:i*3+3])
		img.Pix[i*4+3] = 0xff
	}
	return img
}

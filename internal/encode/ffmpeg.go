package encode

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/fractalvid/internal/palette"
)

// FFmpeg pipes rgb24 frames into an ffmpeg child process.
type FFmpeg struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *syncBuffer
	closed bool
}

// syncBuffer collects ffmpeg's stderr. exec copies into it from its own
// goroutine until Wait returns, so reads and writes share a lock.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Args builds the ffmpeg command line for a stream written to path.
func Args(path string, opts Options) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FrameRate),
		"-i", "-",
		// yuv420p needs even dimensions; pad instead of rescaling.
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", strconv.Itoa(CRF(opts.Quality)),
		path,
	}
}

// CRF maps quality 0..10 onto x264's constant rate factor, 48 down to 18.
func CRF(quality int) int {
	if quality < 0 {
		quality = 0
	}
	if quality > 10 {
		quality = 10
	}
	return 18 + (10-quality)*3
}

// NewFFmpeg starts ffmpeg writing to path.
func NewFFmpeg(path string, opts Options) (*FFmpeg, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("encode: ffmpeg not found: %w", err)
	}

	e := &FFmpeg{opts: opts, stderr: &syncBuffer{}}
	e.cmd = exec.Command(resolved, Args(path, opts)...)
	e.cmd.Stderr = e.stderr
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encode: ffmpeg stdin: %w", err)
	}
	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("encode: start ffmpeg: %w", err)
	}
	return e, nil
}

func (e *FFmpeg) WriteFrame(f palette.Frame) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.opts.checkFrame(f); err != nil {
		return err
	}
	if _, err := e.stdin.Write(f.Pix[:f.Width*f.Height*3]); err != nil {
		return fmt.Errorf("encode: write to ffmpeg: %w%s", err, e.detail())
	}
	return nil
}

// Close flushes the pipe and waits for ffmpeg to finish the container.
func (e *FFmpeg) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	closeErr := e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("encode: ffmpeg: %w%s", err, e.detail())
	}
	if closeErr != nil {
		return fmt.Errorf("encode: close ffmpeg stdin: %w", closeErr)
	}
	return nil
}

func (e *FFmpeg) detail() string {
	msg := strings.TrimSpace(e.stderr.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}

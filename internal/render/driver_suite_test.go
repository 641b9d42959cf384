package render_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fractalvid/internal/config"
	"github.com/san-kum/fractalvid/internal/encode"
	"github.com/san-kum/fractalvid/internal/palette"
	"github.com/san-kum/fractalvid/internal/render"
)

// memoryEncoder keeps a copy of every frame it receives.
type memoryEncoder struct {
	frames [][]byte
	shapes [][2]int
	failAt int
	closed bool
}

var errDiskFull = errors.New("disk full")

func (m *memoryEncoder) WriteFrame(f palette.Frame) error {
	if m.failAt > 0 && len(m.frames) == m.failAt {
		return errDiskFull
	}
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	m.frames = append(m.frames, pix)
	m.shapes = append(m.shapes, [2]int{f.Width, f.Height})
	return nil
}

func (m *memoryEncoder) Close() error {
	m.closed = true
	return nil
}

func resolved(mutate func(c *config.Config)) *config.Resolved {
	cfg := config.DefaultConfig()
	cfg.Resolution = "40p"
	cfg.Duration = 2.0
	cfg.MaxIterations = 32
	cfg.Seed = 42
	cfg.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	r, err := cfg.Resolve()
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a two second sequence at 24 fps", func() {
		var (
			enc    *memoryEncoder
			result *render.Result
		)

		BeforeEach(func() {
			d, err := render.FromConfig(resolved(nil))
			Expect(err).NotTo(HaveOccurred())
			enc = &memoryEncoder{}
			result, err = d.Run(ctx, enc)
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits exactly 48 frames", func() {
			Expect(enc.frames).To(HaveLen(48))
			Expect(result.Frames).To(HaveLen(48))
		})

		It("emits frames of height x width x 3 bytes", func() {
			for i, pix := range enc.frames {
				Expect(pix).To(HaveLen(40*71*3), "frame %d", i)
				Expect(enc.shapes[i]).To(Equal([2]int{71, 40}))
			}
		})

		It("emits frames in increasing index order", func() {
			for i, st := range result.Frames {
				Expect(st.Index).To(Equal(i))
			}
		})

		It("attenuates the cuts by the decay factor over the whole run", func() {
			Expect(result.CutMultiplier).To(BeNumerically("~", 0.05, 1e-12))
		})

		It("records the seed it ran with", func() {
			Expect(result.Seed).To(Equal(int64(42)))
		})

		It("does not close an encoder it did not open", func() {
			Expect(enc.closed).To(BeFalse())
		})
	})

	Describe("the exponent sweep schedule", func() {
		It("leaves cuts untouched", func() {
			d, err := render.FromConfig(resolved(func(c *config.Config) {
				c.Schedule = "exponent-sweep"
				c.Duration = 0.5
			}))
			Expect(err).NotTo(HaveOccurred())
			before := d.Cuts().Snapshot()

			result, err := d.Run(ctx, &memoryEncoder{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.CutMultiplier).To(Equal(1.0))
			Expect(d.Cuts().Values()).To(Equal(before))
		})

		It("sweeps the exponent upward from -20", func() {
			d, err := render.FromConfig(resolved(func(c *config.Config) {
				c.Schedule = "exponent-sweep"
				c.Duration = 0.5
			}))
			Expect(err).NotTo(HaveOccurred())
			result, err := d.Run(ctx, &memoryEncoder{})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Frames[0].Pose.Exponent).To(BeNumerically("~", -20, 1e-12))
			Expect(result.Frames[len(result.Frames)-1].Pose.Exponent).To(BeNumerically("~", -19, 1e-12))
		})
	})

	Describe("determinism", func() {
		It("renders identical frames for identical seeds", func() {
			render1, err := render.FromConfig(resolved(func(c *config.Config) { c.Duration = 0.25 }))
			Expect(err).NotTo(HaveOccurred())
			render2, err := render.FromConfig(resolved(func(c *config.Config) { c.Duration = 0.25 }))
			Expect(err).NotTo(HaveOccurred())

			a, b := &memoryEncoder{}, &memoryEncoder{}
			_, err = render1.Run(ctx, a)
			Expect(err).NotTo(HaveOccurred())
			_, err = render2.Run(ctx, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.frames).To(Equal(b.frames))
		})

		It("renders different cuts for different seeds", func() {
			d1, err := render.FromConfig(resolved(nil))
			Expect(err).NotTo(HaveOccurred())
			d2, err := render.FromConfig(resolved(func(c *config.Config) { c.Seed = 43 }))
			Expect(err).NotTo(HaveOccurred())
			Expect(d1.Cuts().Values()).NotTo(Equal(d2.Cuts().Values()))
		})
	})

	Describe("early termination", func() {
		It("stops between frames when the context is canceled", func() {
			d, err := render.FromConfig(resolved(nil))
			Expect(err).NotTo(HaveOccurred())

			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			d.AddObserver(render.ObserverFunc(func(st render.FrameStats, total int) {
				if st.Index == 2 {
					cancel()
				}
			}))

			enc := &memoryEncoder{}
			result, err := d.Run(cctx, enc)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Frames).To(HaveLen(3))
			Expect(enc.frames).To(HaveLen(3))
		})

		It("reports encoder failures with the frame index", func() {
			d, err := render.FromConfig(resolved(nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = d.Run(ctx, &memoryEncoder{failAt: 5})
			Expect(err).To(MatchError(errDiskFull))

			var fe *render.FrameError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Frame).To(Equal(5))
			Expect(fe.Stage).To(Equal("encode"))
		})

		It("closes the encoder it opened even when canceled", func() {
			d, err := render.FromConfig(resolved(func(c *config.Config) { c.Duration = 0.25 }))
			Expect(err).NotTo(HaveOccurred())

			path := filepath.Join(GinkgoT().TempDir(), "partial.gif")
			cctx, cancel := context.WithCancel(ctx)
			d.AddObserver(render.ObserverFunc(func(st render.FrameStats, total int) {
				if st.Index == 1 {
					cancel()
				}
			}))

			result, err := d.Render(cctx, path, encode.Options{FrameRate: 24, Quality: 10})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Frames).To(HaveLen(2))

			info, statErr := os.Stat(path)
			Expect(statErr).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		})
	})

	Describe("a single-frame sequence", func() {
		It("renders the start pose", func() {
			d, err := render.FromConfig(resolved(func(c *config.Config) {
				c.Duration = 1
				c.FrameRate = 1
			}))
			Expect(err).NotTo(HaveOccurred())

			result, err := d.Run(ctx, &memoryEncoder{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Frames).To(HaveLen(1))
			Expect(result.Frames[0].Pose.Exponent).To(BeNumerically("~", 1.01, 1e-12))
			Expect(math.IsNaN(result.Frames[0].Pose.Zoom)).To(BeFalse())
		})
	})
})

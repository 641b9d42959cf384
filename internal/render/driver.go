package render

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/fractalvid/internal/config"
	"github.com/san-kum/fractalvid/internal/cuts"
	"github.com/san-kum/fractalvid/internal/encode"
	"github.com/san-kum/fractalvid/internal/field"
	"github.com/san-kum/fractalvid/internal/palette"
	"github.com/san-kum/fractalvid/internal/trajectory"
)

type Driver struct {
	settings  Settings
	schedule  trajectory.Schedule
	policy    palette.Policy
	cuts      *cuts.Schedule
	rng       *rand.Rand
	seed      int64
	observers []Observer

	field []float64
	frame palette.Frame
	next  int
}

// New builds a driver from explicit parts. rng supplies dither noise and is
// owned by the caller; it may be nil to disable dithering.
func New(s Settings, schedule trajectory.Schedule, policy palette.Policy, cutSchedule *cuts.Schedule, rng *rand.Rand) (*Driver, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if schedule == nil || policy == nil || cutSchedule == nil {
		return nil, ErrNotConfigured
	}
	if cutSchedule.Len() < s.MaxIterations {
		return nil, settingsError("%d cuts for %d iterations", cutSchedule.Len(), s.MaxIterations)
	}
	return &Driver{
		settings:  s,
		schedule:  schedule,
		policy:    policy,
		cuts:      cutSchedule,
		rng:       rng,
		observers: make([]Observer, 0),
		field:     make([]float64, s.Width*s.Height),
		frame:     palette.NewFrame(s.Width, s.Height),
	}, nil
}

// FromConfig wires a driver from a resolved configuration. A zero seed is
// replaced by one drawn from the clock and reported by Seed.
func FromConfig(r *config.Resolved) (*Driver, error) {
	schedule, err := trajectory.Get(r.Schedule)
	if err != nil {
		return nil, err
	}
	policy, err := palette.Get(r.Palette)
	if err != nil {
		return nil, err
	}

	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	cutSchedule := cuts.New(r.MaxIterations, r.Cuts.Amplitude, rng)

	d, err := New(Settings{
		Width:         r.Width,
		Height:        r.Height,
		NumFrames:     r.NumFrames,
		Dt:            r.Dt,
		MaxIterations: r.MaxIterations,
		Decay:         r.Cuts.Decay,
		Workers:       r.Workers,
	}, schedule, policy, cutSchedule, rng)
	if err != nil {
		return nil, err
	}
	d.seed = seed
	return d, nil
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Settings() Settings { return d.settings }
func (d *Driver) Seed() int64        { return d.seed }

// Cuts exposes the live cut schedule.
func (d *Driver) Cuts() *cuts.Schedule { return d.cuts }

// Field returns the scratch field of the most recent frame. It is
// overwritten by the next one.
func (d *Driver) Field() []float64 { return d.field }

// Next is the index of the frame the driver will render next.
func (d *Driver) Next() int { return d.next }

// Params builds the engine parameters for a pose with the current cuts.
func (d *Driver) Params(pose trajectory.CameraState) field.Params {
	return field.Params{
		Width:         d.settings.Width,
		Height:        d.settings.Height,
		CenterX:       pose.CenterX,
		CenterY:       pose.CenterY,
		Zoom:          pose.Zoom,
		Exponent:      pose.Exponent,
		MaxIterations: d.settings.MaxIterations,
		Cuts:          d.cuts.Values(),
	}
}

// Step renders the next frame into the driver's frame buffer, advances the
// cut schedule, and returns the frame. The frame is reused by the next Step.
func (d *Driver) Step() (palette.Frame, FrameStats, error) {
	n := d.next
	if n >= d.settings.NumFrames {
		return palette.Frame{}, FrameStats{}, &FrameError{Frame: n, Stage: "schedule", Wrapped: ErrFinished}
	}
	start := time.Now()

	pose := d.schedule.Pose(n, d.settings.NumFrames)
	if err := field.ComputeParallel(d.field, d.Params(pose), d.settings.Workers); err != nil {
		return palette.Frame{}, FrameStats{}, &FrameError{Frame: n, Stage: "field", Wrapped: err}
	}
	if err := d.policy.Colorize(d.frame, d.field, d.rng); err != nil {
		return palette.Frame{}, FrameStats{}, &FrameError{Frame: n, Stage: "palette", Wrapped: err}
	}

	stats := Summarize(d.field, d.settings.MaxIterations)
	stats.Index = n
	stats.Pose = pose
	stats.Elapsed = time.Since(start)

	if d.schedule.DecaysCuts() {
		d.cuts.Decay(d.settings.Decay, d.settings.Dt)
	}
	d.next++
	return d.frame, stats, nil
}

// Skip advances the sequence by n frames without rendering them, applying the
// cut decay those frames would have applied.
func (d *Driver) Skip(n int) {
	for i := 0; i < n && d.next < d.settings.NumFrames; i++ {
		if d.schedule.DecaysCuts() {
			d.cuts.Decay(d.settings.Decay, d.settings.Dt)
		}
		d.next++
	}
}

// Run renders every remaining frame to enc in order. The encoder is not
// closed. On cancellation the frames rendered so far are returned along with
// the context error.
func (d *Driver) Run(ctx context.Context, enc encode.Encoder) (*Result, error) {
	result := &Result{
		Frames: make([]FrameStats, 0, d.settings.NumFrames-d.next),
		Seed:   d.seed,
	}
	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.CutMultiplier = d.cuts.Multiplier()
	}()

	for d.next < d.settings.NumFrames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		frame, stats, err := d.Step()
		if err != nil {
			return result, err
		}
		if err := enc.WriteFrame(frame); err != nil {
			return result, &FrameError{Frame: stats.Index, Stage: "encode", Wrapped: err}
		}

		result.Frames = append(result.Frames, stats)
		for _, o := range d.observers {
			o.OnFrame(stats, d.settings.NumFrames)
		}
	}

	return result, nil
}

// Render opens an encoder for path, runs the sequence into it, and always
// closes it.
func (d *Driver) Render(ctx context.Context, path string, opts encode.Options) (result *Result, err error) {
	opts.Width, opts.Height = d.settings.Width, d.settings.Height
	enc, err := encode.Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return d.Run(ctx, enc)
}

func settingsError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrSettings}, args...)...)
}

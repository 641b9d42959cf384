// Package trajectory maps a frame index to the camera pose used to render it.
package trajectory

import (
	"fmt"
	"math"
	"sort"
)

// CameraState is the pose of one frame.
type CameraState struct {
	CenterX  float64 `json:"center_x" yaml:"center_x"`
	CenterY  float64 `json:"center_y" yaml:"center_y"`
	Zoom     float64 `json:"zoom" yaml:"zoom"`
	Exponent float64 `json:"exponent" yaml:"exponent"`
}

// Lerp blends from s toward o by t.
func (s CameraState) Lerp(o CameraState, t float64) CameraState {
	return CameraState{
		CenterX:  s.CenterX + (o.CenterX-s.CenterX)*t,
		CenterY:  s.CenterY + (o.CenterY-s.CenterY)*t,
		Zoom:     s.Zoom + (o.Zoom-s.Zoom)*t,
		Exponent: s.Exponent + (o.Exponent-s.Exponent)*t,
	}
}

// Schedule produces one pose per frame of a sequence.
type Schedule interface {
	Name() string
	Pose(n, numFrames int) CameraState
	// DecaysCuts reports whether cuts fade between frames.
	DecaysCuts() bool
}

// Progress returns n/(numFrames-1), or 0 for single-frame sequences.
func Progress(n, numFrames int) float64 {
	if numFrames <= 1 {
		return 0
	}
	return float64(n) / float64(numFrames-1)
}

const (
	ZoomPivotName     = "zoom-pivot"
	ExponentSweepName = "exponent-sweep"
)

var schedules = map[string]func() Schedule{
	ZoomPivotName:     func() Schedule { return NewZoomPivot() },
	ExponentSweepName: func() Schedule { return NewExponentSweep() },
}

// Get returns the named schedule.
func Get(name string) (Schedule, error) {
	fn, ok := schedules[name]
	if !ok {
		return nil, fmt.Errorf("unknown schedule: %s (available: %v)", name, List())
	}
	return fn(), nil
}

// List returns the registered schedule names, sorted.
func List() []string {
	names := make([]string, 0, len(schedules))
	for name := range schedules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ZoomPivot eases toward a pivot pose over the first 90% of the sequence and
// then blends linearly into a final pose.
type ZoomPivot struct {
	// Split is the progress at which easing hands over to the final blend.
	Split float64
	// Sharpness scales the tanh easing curve.
	Sharpness float64
}

func NewZoomPivot() *ZoomPivot {
	return &ZoomPivot{Split: 0.9, Sharpness: 3}
}

func (z *ZoomPivot) Name() string     { return ZoomPivotName }
func (z *ZoomPivot) DecaysCuts() bool { return true }

func (z *ZoomPivot) Pose(n, numFrames int) CameraState {
	tg := Progress(n, numFrames)
	if tg < z.Split {
		t := tg / z.Split
		e := t * math.Tanh(t*z.Sharpness)
		return CameraState{
			CenterX:  -e,
			CenterY:  -0.35 * e,
			Zoom:     2*t*t - 0.5,
			Exponent: 1.01 + e/math.Tanh(z.Sharpness)*0.99,
		}
	}

	t := (tg - z.Split) / (1 - z.Split)
	tp := tg / z.Split
	ep := tp * math.Tanh(tp*z.Sharpness)
	pivot := CameraState{CenterX: -ep, CenterY: -0.35 * ep, Zoom: 2*tp*tp - 0.5, Exponent: 2}
	final := CameraState{CenterX: -1 + 0.3*t, CenterY: -0.35 * (1 - t), Zoom: 1.5 - 2*t*t, Exponent: 2}
	return pivot.Lerp(final, t)
}

// ExponentSweep holds the camera still and sweeps the exponent upward.
type ExponentSweep struct {
	Camera CameraState
	// Offset is added to the normalized progress to form the exponent.
	Offset float64
}

func NewExponentSweep() *ExponentSweep {
	return &ExponentSweep{
		Camera: CameraState{CenterX: 0.7, CenterY: 0.8, Zoom: 3.5},
		Offset: -20,
	}
}

func (e *ExponentSweep) Name() string     { return ExponentSweepName }
func (e *ExponentSweep) DecaysCuts() bool { return false }

func (e *ExponentSweep) Pose(n, numFrames int) CameraState {
	c := e.Camera
	c.Exponent = Progress(n, numFrames) + e.Offset
	return c
}

package render

import (
	"math"
	"time"

	"github.com/san-kum/fractalvid/internal/trajectory"
)

// Settings are the resolved numbers a Driver runs with.
type Settings struct {
	Width, Height int
	NumFrames     int
	// Dt is the simulated time of one frame, 1/NumFrames.
	Dt            float64
	MaxIterations int
	// Decay is the total cut attenuation over the whole sequence.
	Decay   float64
	Workers int
}

func (s Settings) validate() error {
	switch {
	case s.Width < 1 || s.Height < 1:
		return settingsError("size %dx%d", s.Width, s.Height)
	case s.NumFrames < 1:
		return settingsError("frame count %d", s.NumFrames)
	case s.MaxIterations < 1:
		return settingsError("max iterations %d", s.MaxIterations)
	case s.Dt <= 0:
		return settingsError("dt %v", s.Dt)
	}
	return nil
}

// FrameStats summarizes one rendered field.
type FrameStats struct {
	Index int
	Pose  trajectory.CameraState
	// Min, Max and Mean cover finite values only.
	Min, Max, Mean float64
	// Interior counts pixels that never escaped.
	Interior int
	// NonFinite counts NaN and Inf pixels.
	NonFinite int
	Elapsed   time.Duration
}

// Summarize computes FrameStats for a field rendered with maxIter.
func Summarize(field []float64, maxIter int) FrameStats {
	st := FrameStats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum, finite := 0.0, 0
	trapped := float64(maxIter)
	for _, v := range field {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			st.NonFinite++
			continue
		}
		if v == trapped {
			st.Interior++
		}
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		sum += v
		finite++
	}
	if finite == 0 {
		st.Min, st.Max, st.Mean = math.NaN(), math.NaN(), math.NaN()
		return st
	}
	st.Mean = sum / float64(finite)
	return st
}

// Result is the record of one sequence.
type Result struct {
	Frames  []FrameStats
	Seed    int64
	Elapsed time.Duration
	// CutMultiplier is the cumulative cut attenuation at the end of the run.
	CutMultiplier float64
}

// MeanSeries returns the per-frame mean escape values.
func (r *Result) MeanSeries() []float64 {
	s := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		s[i] = f.Mean
	}
	return s
}

// Observer is notified after each frame has been written.
type Observer interface {
	OnFrame(stats FrameStats, numFrames int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stats FrameStats, numFrames int)

func (f ObserverFunc) OnFrame(stats FrameStats, numFrames int) { f(stats, numFrames) }

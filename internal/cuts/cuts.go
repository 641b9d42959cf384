// Package cuts holds the per-iteration angular offsets fed to the field
// engine and the rule by which they fade over a sequence.
package cuts

import (
	"math"
	"math/rand"
)

const (
	// DefaultAmplitude spreads initial cuts over (-50, 50).
	DefaultAmplitude = 100.0

	// DefaultDecay is the attenuation applied over one whole sequence.
	DefaultDecay = 0.05
)

// Schedule owns a cut slice and its cumulative attenuation.
type Schedule struct {
	values     []float64
	multiplier float64
}

// New draws size cuts as amplitude*(u-0.5) with u uniform on [0, 1) from rng.
func New(size int, amplitude float64, rng *rand.Rand) *Schedule {
	s := &Schedule{values: make([]float64, size), multiplier: 1}
	for i := range s.values {
		s.values[i] = amplitude * (rng.Float64() - 0.5)
	}
	return s
}

// Zero returns size cuts of zero, which reduces the map to the plain power map.
func Zero(size int) *Schedule {
	return &Schedule{values: make([]float64, size), multiplier: 1}
}

// FromValues wraps a copy of values.
func FromValues(values []float64) *Schedule {
	s := &Schedule{values: make([]float64, len(values)), multiplier: 1}
	copy(s.values, values)
	return s
}

// Values returns the live slice. Callers pass it to the engine read-only.
func (s *Schedule) Values() []float64 { return s.values }

// Len returns the number of cuts.
func (s *Schedule) Len() int { return len(s.values) }

// Multiplier is the product of all decay steps applied so far.
func (s *Schedule) Multiplier() float64 { return s.multiplier }

// Decay scales every cut in place by factor^dt.
func (s *Schedule) Decay(factor, dt float64) {
	k := math.Pow(factor, dt)
	for i := range s.values {
		s.values[i] *= k
	}
	s.multiplier *= k
}

// Snapshot returns a copy of the current cuts.
func (s *Schedule) Snapshot() []float64 {
	c := make([]float64, len(s.values))
	copy(c, s.values)
	return c
}

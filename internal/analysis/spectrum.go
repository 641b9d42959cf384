package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 1.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the FFT of series
// after removing its mean and zero-padding it to a power of two. Non-finite
// samples are treated as zero.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	mean, count := 0.0, 0
	for _, v := range series {
		if isFinite(v) {
			mean += v
			count++
		}
	}
	if count > 0 {
		mean /= float64(count)
	}

	padded := make([]float64, NextPow2(len(series)))
	for i, v := range series {
		if isFinite(v) {
			padded[i] = v - mean
		}
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	if len(ps) == 0 {
		ps = []float64{cmplx.Abs(spectrum[0])}
	}
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of series sampled at rate, or 0 when there is none.
func DominantFrequency(series []float64, rate float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0
	}

	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 {
		return 0
	}

	n := NextPow2(len(series))
	return float64(best) * rate / float64(n)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Package analysis provides post-render analysis of fractal sequences.
//
//   - [PowerSpectrum]: magnitude spectrum of a per-frame series (go-dsp FFT)
//   - [DominantFrequency]: strongest non-DC frequency of a series in Hz
//   - [Histogram]: distribution of escape values across a field
//   - [Describe]: min, max, mean and deviation of a series
//
// # Flicker Detection
//
// Cut decay and exponent sweeps modulate the mean escape value over time.
// A strong peak in its spectrum indicates visible flicker:
//
//	f := analysis.DominantFrequency(result.MeanSeries(), 24)
package analysis

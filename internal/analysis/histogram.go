package analysis

import "math"

// Histogram counts the finite values of field in bins equal-width buckets over
// [0, maxIter]. Values outside the range are clamped into the edge buckets;
// interior pixels (exactly maxIter) land in the last one.
func Histogram(field []float64, bins int, maxIter int) []int {
	if bins < 1 {
		return []int{}
	}
	counts := make([]int, bins)
	if maxIter < 1 {
		return counts
	}

	width := float64(maxIter) / float64(bins)
	for _, v := range field {
		if !isFinite(v) {
			continue
		}
		b := int(math.Floor(v / width))
		if b < 0 {
			b = 0
		}
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	return counts
}

// Stats summarizes a series, skipping non-finite samples.
type Stats struct {
	Min, Max, Mean, StdDev float64
	Count                  int
}

func Describe(series []float64) Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, v := range series {
		if !isFinite(v) {
			continue
		}
		st.Count++
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	if st.Count == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN(), StdDev: math.NaN()}
	}
	st.Mean = sum / float64(st.Count)

	sq := 0.0
	for _, v := range series {
		if isFinite(v) {
			d := v - st.Mean
			sq += d * d
		}
	}
	st.StdDev = math.Sqrt(sq / float64(st.Count))
	return st
}

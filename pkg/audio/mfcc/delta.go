package mfcc

// appendDeltas fills the Delta and DeltaDelta fields of the frames using
// linear-regression trajectories over a ±window frame span.
//
// The regression slope at frame t is
//
//	d[t] = Σ_{n=1..N} n·(c[t+n] − c[t−n]) / (2·Σ_{n=1..N} n²)
//
// with edge padding (indices clamped to the valid range), so a constant
// coefficient sequence has exactly zero delta and a linear ramp has a
// constant delta equal to its slope at interior frames.
func appendDeltas(frames []Frame, window int) {
	if len(frames) == 0 {
		return
	}
	if window <= 0 {
		window = 2
	}

	numCoeffs := len(frames[0].Coeffs)

	var denom float64
	for n := 1; n <= window; n++ {
		denom += float64(n * n)
	}
	denom *= 2

	slopes := func(at func(t, c int) float64) [][]float64 {
		out := make([][]float64, len(frames))
		for t := range frames {
			row := make([]float64, numCoeffs)
			for c := 0; c < numCoeffs; c++ {
				var num float64
				for n := 1; n <= window; n++ {
					num += float64(n) * (at(clampIndex(t+n, len(frames)), c) - at(clampIndex(t-n, len(frames)), c))
				}
				row[c] = num / denom
			}
			out[t] = row
		}
		return out
	}

	deltas := slopes(func(t, c int) float64 { return frames[t].Coeffs[c] })
	for t := range frames {
		frames[t].Delta = deltas[t]
	}

	deltaDeltas := slopes(func(t, c int) float64 { return frames[t].Delta[c] })
	for t := range frames {
		frames[t].DeltaDelta = deltaDeltas[t]
	}
}

// clampIndex clamps t into [0, n) for edge padding.
func clampIndex(t, n int) int {
	if t < 0 {
		return 0
	}
	if t >= n {
		return n - 1
	}
	return t
}

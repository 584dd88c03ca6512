package preproc

import "math"

// NoiseReducerConfig configures the high-pass noise reducer.
type NoiseReducerConfig struct {
	// CutoffHz is the high-pass cutoff frequency. Default: 80.
	CutoffHz float64
}

// DefaultNoiseReducerConfig returns the default 80Hz rumble cutoff.
func DefaultNoiseReducerConfig() NoiseReducerConfig {
	return NoiseReducerConfig{CutoffHz: 80}
}

// NoiseReducer removes low-frequency rumble (HVAC, handling noise) with a
// first-order high-pass filter.
//
// There is deliberately no amplitude gate: quiet far-field speech must pass
// through attenuated only by the filter itself.
type NoiseReducer struct {
	cutoffHz float64
}

// NewNoiseReducer creates a NoiseReducer with the given config.
func NewNoiseReducer(cfg NoiseReducerConfig) *NoiseReducer {
	cutoff := cfg.CutoffHz
	if cutoff <= 0 {
		cutoff = 80
	}
	return &NoiseReducer{cutoffHz: cutoff}
}

// Process applies the high-pass filter and returns a new slice.
// Inputs of length 0 or 1 pass through unchanged.
//
//	rc = 1/(2π·cutoff), dt = 1/sampleRate, alpha = rc/(rc+dt)
//	out[i] = alpha·(out[i-1] + in[i] − in[i-1])
func (n *NoiseReducer) Process(samples []float32, sampleRate int) []float32 {
	if len(samples) < 2 || sampleRate <= 0 {
		return samples
	}

	rc := 1.0 / (2 * math.Pi * n.cutoffHz)
	dt := 1.0 / float64(sampleRate)
	alpha := rc / (rc + dt)

	out := make([]float32, len(samples))
	out[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		out[i] = float32(alpha * (float64(out[i-1]) + float64(samples[i]) - float64(samples[i-1])))
	}
	return out
}

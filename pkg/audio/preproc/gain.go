package preproc

// AutoGainConfig configures the automatic gain controller.
type AutoGainConfig struct {
	// TargetRMS is the RMS level the controller boosts toward. Default: 0.08.
	TargetRMS float64

	// SilenceThreshold is the RMS level below which no gain is applied, so
	// the noise floor is never amplified. Default: 0.001.
	SilenceThreshold float64

	// MaxGain caps the boost factor. Default: 40.
	MaxGain float64

	// MinGain floors the gain factor; the default of 1 means the controller
	// only ever boosts.
	MinGain float64
}

// DefaultAutoGainConfig returns the tuned defaults for speech capture.
func DefaultAutoGainConfig() AutoGainConfig {
	return AutoGainConfig{
		TargetRMS:        0.08,
		SilenceThreshold: 0.001,
		MaxGain:          40,
		MinGain:          1,
	}
}

// AutoGain normalizes buffer loudness toward a target RMS, leaving
// near-silent buffers untouched and hard-clipping the result to [-1, 1].
type AutoGain struct {
	cfg AutoGainConfig
}

// NewAutoGain creates an AutoGain with the given config.
func NewAutoGain(cfg AutoGainConfig) *AutoGain {
	if cfg.TargetRMS <= 0 {
		cfg.TargetRMS = 0.08
	}
	if cfg.SilenceThreshold <= 0 {
		cfg.SilenceThreshold = 0.001
	}
	if cfg.MaxGain <= 0 {
		cfg.MaxGain = 40
	}
	if cfg.MinGain <= 0 {
		cfg.MinGain = 1
	}
	return &AutoGain{cfg: cfg}
}

// Process applies gain toward the target RMS and returns a new slice when
// gain was applied, or the input unchanged for silent buffers.
func (g *AutoGain) Process(samples []float32, sampleRate int) []float32 {
	level := rms(samples)
	if level <= g.cfg.SilenceThreshold {
		return samples
	}

	gain := g.cfg.TargetRMS / level
	if gain > g.cfg.MaxGain {
		gain = g.cfg.MaxGain
	}
	if gain < g.cfg.MinGain {
		gain = g.cfg.MinGain
	}

	out := make([]float32, len(samples))
	for i, s := range samples {
		v := float64(s) * gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = float32(v)
	}
	return out
}

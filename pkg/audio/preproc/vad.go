package preproc

// VoiceDetectorConfig configures the energy + zero-crossing-rate classifier.
type VoiceDetectorConfig struct {
	// EnergyThreshold is the minimum RMS for speech. Default: 0.004.
	EnergyThreshold float64

	// ZCRLow and ZCRHigh bound the zero-crossing rate of speech. Pure tones
	// and DC sit below ZCRLow; broadband noise sits above ZCRHigh.
	// Defaults: 0.02 and 0.65.
	ZCRLow  float64
	ZCRHigh float64
}

// DefaultVoiceDetectorConfig returns the tuned defaults for gained 16kHz
// speech buffers.
func DefaultVoiceDetectorConfig() VoiceDetectorConfig {
	return VoiceDetectorConfig{
		EnergyThreshold: 0.004,
		ZCRLow:          0.02,
		ZCRHigh:         0.65,
	}
}

// VoiceDetector classifies a buffer as speech or non-speech from its RMS
// energy and zero-crossing rate. It is advisory only and never mutates the
// samples it inspects.
type VoiceDetector struct {
	cfg VoiceDetectorConfig
}

// NewVoiceDetector creates a VoiceDetector with the given config.
func NewVoiceDetector(cfg VoiceDetectorConfig) *VoiceDetector {
	if cfg.EnergyThreshold <= 0 {
		cfg.EnergyThreshold = 0.004
	}
	if cfg.ZCRLow <= 0 {
		cfg.ZCRLow = 0.02
	}
	if cfg.ZCRHigh <= 0 {
		cfg.ZCRHigh = 0.65
	}
	return &VoiceDetector{cfg: cfg}
}

// DetectSpeech reports whether the buffer contains speech: sufficient energy
// AND a zero-crossing rate inside the speech band. Silence fails the energy
// test; alternating-sign noise fails the ZCR test.
func (v *VoiceDetector) DetectSpeech(samples []float32, sampleRate int) bool {
	if len(samples) < 2 {
		return false
	}

	if rms(samples) <= v.cfg.EnergyThreshold {
		return false
	}

	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	zcr := float64(crossings) / float64(len(samples)-1)

	return zcr > v.cfg.ZCRLow && zcr < v.cfg.ZCRHigh
}

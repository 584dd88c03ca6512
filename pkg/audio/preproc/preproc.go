// Package preproc implements the real-time audio preprocessing pipeline that
// runs on the capture callback path:
//
//	NoiseReducer → AutoGain → VoiceDetector (+hangover) → LevelMonitor
//
// The pipeline is invoked strictly sequentially for one capture session and
// keeps all mutable state (the speech hangover counter) private to the
// calling thread. It is allocation-light: stages process samples in place
// where they can and the only per-call allocations are the output slice
// copies stages need for correctness.
//
// Samples are never zeroed: the speech flag is advisory and downstream
// consumers always receive the full gained waveform.
package preproc

import (
	"math"
)

// Stage is one processing step of the real-time chain. A Stage may modify
// and return the input slice or return a new slice; callers must use the
// returned slice.
type Stage interface {
	Process(samples []float32, sampleRate int) []float32
}

// ProcessedAudio is the per-buffer output of the pipeline.
type ProcessedAudio struct {
	// Samples is the gained waveform. Never zeroed, even for non-speech.
	Samples []float32

	// IsSpeech reports whether the buffer is classified as speech, after
	// hangover smoothing.
	IsSpeech bool

	// Level is the UI level metric for this buffer.
	Level Level
}

// PipelineConfig configures the composite pipeline.
type PipelineConfig struct {
	Noise NoiseReducerConfig
	Gain  AutoGainConfig
	VAD   VoiceDetectorConfig

	// HangoverFrames is the number of consecutive non-speech buffers that
	// still report speech after the last detected speech buffer, so trailing
	// syllables are not clipped. Default: 3.
	HangoverFrames int
}

// DefaultPipelineConfig returns the tuned defaults for 16kHz speech capture.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Noise:          DefaultNoiseReducerConfig(),
		Gain:           DefaultAutoGainConfig(),
		VAD:            DefaultVoiceDetectorConfig(),
		HangoverFrames: 3,
	}
}

// Pipeline composes the real-time stages. Not safe for concurrent use; the
// capture callback is the only caller.
type Pipeline struct {
	noise   *NoiseReducer
	gain    *AutoGain
	vad     *VoiceDetector
	monitor *LevelMonitor

	hangoverLimit int
	hangover      int
}

// NewPipeline creates a Pipeline with the given config.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	limit := cfg.HangoverFrames
	if limit <= 0 {
		limit = 3
	}
	return &Pipeline{
		noise:         NewNoiseReducer(cfg.Noise),
		gain:          NewAutoGain(cfg.Gain),
		vad:           NewVoiceDetector(cfg.VAD),
		monitor:       NewLevelMonitor(),
		hangoverLimit: limit,
	}
}

// Process runs one capture buffer through the chain and returns the gained
// samples, the hangover-smoothed speech flag and the level metrics.
func (p *Pipeline) Process(samples []float32, sampleRate int) ProcessedAudio {
	processed := p.noise.Process(samples, sampleRate)
	processed = p.gain.Process(processed, sampleRate)

	raw := p.vad.DetectSpeech(processed, sampleRate)
	isSpeech := raw || p.hangover > 0
	if raw {
		p.hangover = p.hangoverLimit
	} else if p.hangover > 0 {
		p.hangover--
	}

	return ProcessedAudio{
		Samples:  processed,
		IsSpeech: isSpeech,
		Level:    p.monitor.CalculateLevel(processed, isSpeech),
	}
}

// Monitor returns the pipeline's level monitor, whose atomic cells may be
// read from other threads (e.g. the telemetry feed).
func (p *Pipeline) Monitor() *LevelMonitor { return p.monitor }

// Reset clears the hangover counter for a session restart.
func (p *Pipeline) Reset() {
	p.hangover = 0
}

// rms computes the root-mean-square level of the samples.
func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

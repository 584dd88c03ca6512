package preproc

import (
	"math"

	"github.com/vocalapp/vocal/pkg/audio/pcm"
)

// Level is the UI level metric for one buffer.
type Level struct {
	// RMS is the root-mean-square level, clamped to [0, 1].
	RMS float32 `json:"rms"`

	// Peak is the peak absolute sample, clamped to [0, 1].
	Peak float32 `json:"peak"`

	// IsSpeech mirrors the pipeline's advisory speech flag.
	IsSpeech bool `json:"isSpeech"`
}

// SilenceLevel is the defined result for an empty buffer.
var SilenceLevel = Level{}

// LevelMonitor computes per-buffer level metrics and publishes the latest
// values into atomic cells so UI meters on other threads can read them
// without locking against the capture thread.
type LevelMonitor struct {
	rms    pcm.AtomicFloat32
	peak   pcm.AtomicFloat32
	speech pcm.AtomicFloat32 // 0 or 1
}

// NewLevelMonitor creates a LevelMonitor.
func NewLevelMonitor() *LevelMonitor {
	return &LevelMonitor{}
}

// CalculateLevel computes RMS and peak of the buffer, publishes them, and
// returns the level together with the speech flag. Empty input yields
// SilenceLevel.
func (m *LevelMonitor) CalculateLevel(samples []float32, isSpeech bool) Level {
	if len(samples) == 0 {
		m.publish(SilenceLevel)
		return SilenceLevel
	}

	var peak float64
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}

	level := Level{
		RMS:      float32(clamp01(rms(samples))),
		Peak:     float32(clamp01(peak)),
		IsSpeech: isSpeech,
	}
	m.publish(level)
	return level
}

// Snapshot returns the most recently published level. Safe to call from any
// thread.
func (m *LevelMonitor) Snapshot() Level {
	return Level{
		RMS:      m.rms.Load(),
		Peak:     m.peak.Load(),
		IsSpeech: m.speech.Load() != 0,
	}
}

func (m *LevelMonitor) publish(l Level) {
	m.rms.Store(l.RMS)
	m.peak.Store(l.Peak)
	if l.IsSpeech {
		m.speech.Store(1)
	} else {
		m.speech.Store(0)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

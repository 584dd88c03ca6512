// Package transcript defines the word-level transcript types consumed from
// the speech-recognition layer. The diarization pipelines read these values
// but never produce or modify them.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
)

// AcousticFeatures carries the optional per-word voice measurements some
// recognizers emit alongside timestamps.
type AcousticFeatures struct {
	Pitch            float64 `json:"pitch"`
	Energy           float64 `json:"energy"`
	SpectralCentroid float64 `json:"spectralCentroid"`
	Jitter           float64 `json:"jitter"`
	Shimmer          float64 `json:"shimmer"`
}

// Word is one transcribed word with its timing inside the chunk.
type Word struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// StartMs is the word onset relative to the chunk start.
	StartMs float64 `json:"startMs"`

	// DurationMs is the spoken duration.
	DurationMs float64 `json:"durationMs"`

	// Confidence is the recognizer confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Features holds optional acoustic measurements; nil when the
	// recognizer did not provide them.
	Features *AcousticFeatures `json:"features,omitempty"`
}

// EndMs returns the word end offset.
func (w Word) EndMs() float64 { return w.StartMs + w.DurationMs }

// MidMs returns the word midpoint offset.
func (w Word) MidMs() float64 { return w.StartMs + w.DurationMs/2 }

// LoadFile reads a JSON array of words from disk. Used by the CLI to attach
// recognizer output to a chunk.
func LoadFile(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read %s: %w", path, err)
	}
	var words []Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("transcript: parse %s: %w", path, err)
	}
	return words, nil
}

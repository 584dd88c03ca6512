// Package diar implements the offline speaker-diarization pipeline that runs
// once per finalized audio chunk:
//
//	MFCC frames → EnergyVAD regions → BIC change points → segment embeddings
//	→ AHC clustering → turn smoothing → word-to-speaker mapping
//
// Every stage is a total function over its input domain: empty frame lists,
// empty regions and zero embeddings produce well-defined empty results, never
// errors. Chunks are independent; cross-chunk identity lives in the align
// subpackage.
package diar

import (
	"github.com/vocalapp/vocal/pkg/speaker"
)

// Region is a contiguous span of speech frames. Start is inclusive, End
// exclusive; End may equal the total frame count for a trailing run.
type Region struct {
	Start int
	End   int
}

// Len returns the region length in frames.
func (r Region) Len() int { return r.End - r.Start }

// ChangePoint is a candidate speaker boundary inside a region.
type ChangePoint struct {
	// Frame is the boundary frame index (absolute, not region-relative).
	Frame int

	// DeltaBIC is the score of the split; only positive scores are accepted.
	DeltaBIC float64
}

// Segment is a bounded speech span labeled with a chunk-local speaker index.
// Segments produced within one region are non-overlapping and ordered.
type Segment struct {
	// StartMs and EndMs bound the span in chunk-relative milliseconds.
	StartMs float64
	EndMs   float64

	// Speaker is the chunk-local speaker index.
	Speaker int
}

// DurationMs returns the segment duration.
func (s Segment) DurationMs() float64 { return s.EndMs - s.StartMs }

// MidMs returns the segment midpoint.
func (s Segment) MidMs() float64 { return (s.StartMs + s.EndMs) / 2 }

// DiarizedSegment is the per-chunk output unit: a speech span with its
// speaker index and the text spoken in it.
type DiarizedSegment struct {
	Speaker int     `json:"speaker"`
	Text    string  `json:"text"`
	StartMs float64 `json:"startMs"`
	EndMs   float64 `json:"endMs"`
}

// Result is the diarization output for one chunk.
type Result struct {
	// Segments are the diarized spans in temporal order.
	Segments []DiarizedSegment

	// SpeakerCount is the number of distinct speakers the final segments
	// reference.
	SpeakerCount int

	// Profiles holds one profile per cluster, indexed by the local speaker
	// label. Smoothing can leave a profile no segment references.
	Profiles []speaker.Profile
}

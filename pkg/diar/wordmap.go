package diar

import (
	"math"

	"github.com/vocalapp/vocal/pkg/transcript"
)

// WordAssignment pairs a transcript word with the speaker label it was
// mapped to.
type WordAssignment struct {
	Word    transcript.Word
	Speaker int
}

// WordMapper assigns transcript words to diarized segments by temporal
// overlap.
type WordMapper struct{}

// NewWordMapper creates a WordMapper.
func NewWordMapper() *WordMapper {
	return &WordMapper{}
}

// Map assigns each word the label of the segment it overlaps most. A word
// with no overlapping segment takes the label of the segment whose midpoint
// is nearest to the word's midpoint; with no segments at all every word
// gets speaker 0. Ties on overlap go to the segment with the larger span.
func (m *WordMapper) Map(words []transcript.Word, segments []Segment) []WordAssignment {
	out := make([]WordAssignment, 0, len(words))
	for _, w := range words {
		out = append(out, WordAssignment{Word: w, Speaker: speakerFor(w, segments)})
	}
	return out
}

func speakerFor(w transcript.Word, segments []Segment) int {
	i := segmentIndexFor(w, segments)
	if i < 0 {
		return 0
	}
	return segments[i].Speaker
}

// segmentIndexFor returns the index of the segment the word belongs to, or
// -1 when there are no segments.
func segmentIndexFor(w transcript.Word, segments []Segment) int {
	if len(segments) == 0 {
		return -1
	}

	best := -1
	bestOverlap := 0.0
	bestSpan := 0.0
	for i, seg := range segments {
		ov := overlapMs(w, seg)
		if ov <= 0 {
			continue
		}
		if ov > bestOverlap || (ov == bestOverlap && seg.DurationMs() > bestSpan) {
			best = i
			bestOverlap = ov
			bestSpan = seg.DurationMs()
		}
	}
	if best >= 0 {
		return best
	}

	// No overlap: nearest segment midpoint wins.
	mid := w.MidMs()
	best = 0
	bestDist := math.Abs(segments[0].MidMs() - mid)
	for i := 1; i < len(segments); i++ {
		d := math.Abs(segments[i].MidMs() - mid)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func overlapMs(w transcript.Word, seg Segment) float64 {
	start := math.Max(w.StartMs, seg.StartMs)
	end := math.Min(w.EndMs(), seg.EndMs)
	return end - start
}

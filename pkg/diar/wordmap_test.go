package diar

import (
	"testing"

	"github.com/vocalapp/vocal/pkg/transcript"
)

func TestWordMapOverlap(t *testing.T) {
	segments := []Segment{
		{StartMs: 0, EndMs: 1000, Speaker: 0},
		{StartMs: 1000, EndMs: 2000, Speaker: 1},
	}
	words := []transcript.Word{
		{Text: "hello", StartMs: 100, DurationMs: 300},
		{Text: "there", StartMs: 1200, DurationMs: 300},
	}

	out := NewWordMapper().Map(words, segments)
	if out[0].Speaker != 0 {
		t.Errorf("word %q mapped to %d, want 0", out[0].Word.Text, out[0].Speaker)
	}
	if out[1].Speaker != 1 {
		t.Errorf("word %q mapped to %d, want 1", out[1].Word.Text, out[1].Speaker)
	}
}

func TestWordMapMaxOverlapWins(t *testing.T) {
	segments := []Segment{
		{StartMs: 0, EndMs: 1000, Speaker: 0},
		{StartMs: 1000, EndMs: 2000, Speaker: 1},
	}
	// 100ms in the first segment, 400ms in the second.
	words := []transcript.Word{{Text: "straddle", StartMs: 900, DurationMs: 500}}

	out := NewWordMapper().Map(words, segments)
	if out[0].Speaker != 1 {
		t.Fatalf("straddling word mapped to %d, want 1", out[0].Speaker)
	}
}

func TestWordMapMidpointFallback(t *testing.T) {
	segments := []Segment{
		{StartMs: 0, EndMs: 500, Speaker: 0},
		{StartMs: 3000, EndMs: 4000, Speaker: 1},
	}
	// The word sits in the gap, closer to the second segment's midpoint.
	words := []transcript.Word{{Text: "between", StartMs: 2500, DurationMs: 200}}

	out := NewWordMapper().Map(words, segments)
	if out[0].Speaker != 1 {
		t.Fatalf("gap word mapped to %d, want 1", out[0].Speaker)
	}
}

func TestWordMapNoSegments(t *testing.T) {
	words := []transcript.Word{{Text: "alone", StartMs: 0, DurationMs: 100}}

	out := NewWordMapper().Map(words, nil)
	if len(out) != 1 || out[0].Speaker != 0 {
		t.Fatalf("no-segment mapping = %v, want speaker 0", out)
	}
}

func TestWordMapTieGoesToLargerSpan(t *testing.T) {
	segments := []Segment{
		{StartMs: 0, EndMs: 1000, Speaker: 0},
		{StartMs: 1200, EndMs: 3000, Speaker: 1},
	}
	// 100ms of overlap with each side.
	words := []transcript.Word{{Text: "tied", StartMs: 900, DurationMs: 400}}

	out := NewWordMapper().Map(words, segments)
	if out[0].Speaker != 1 {
		t.Fatalf("tied word mapped to %d, want the larger segment's speaker 1", out[0].Speaker)
	}
}

package diar

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/vocalapp/vocal/pkg/transcript"
)

// voiceTone synthesizes a harmonic tone with a little noise, approximating a
// steady vowel at the given fundamental.
func voiceTone(rng *rand.Rand, f0 float64, seconds float64, rate int) []float32 {
	n := int(seconds * float64(rate))
	out := make([]float32, n)
	for i := range out {
		ts := float64(i) / float64(rate)
		v := 0.5*math.Sin(2*math.Pi*f0*ts) +
			0.25*math.Sin(2*math.Pi*2*f0*ts) +
			0.12*math.Sin(2*math.Pi*3*f0*ts)
		out[i] = float32(v*0.5 + rng.NormFloat64()*0.01)
	}
	return out
}

func silence(seconds float64, rate int) []float32 {
	return make([]float32, int(seconds*float64(rate)))
}

func TestDiarizeSilentChunk(t *testing.T) {
	d := NewDiarizer(DefaultDiarizerConfig())
	res := d.Diarize(silence(2, 16000), nil)
	if res.SpeakerCount != 0 {
		t.Errorf("silent chunk reported %d speakers", res.SpeakerCount)
	}
	if len(res.Segments) != 0 {
		t.Errorf("silent chunk produced segments: %v", res.Segments)
	}
}

func TestDiarizeSilentChunkWithWords(t *testing.T) {
	words := []transcript.Word{
		{Text: "barely", StartMs: 100, DurationMs: 200},
		{Text: "audible", StartMs: 350, DurationMs: 300},
	}
	d := NewDiarizer(DefaultDiarizerConfig())
	res := d.Diarize(silence(2, 16000), words)
	if res.SpeakerCount != 1 {
		t.Fatalf("fallback speaker count = %d, want 1", res.SpeakerCount)
	}
	if len(res.Segments) != 1 || res.Segments[0].Speaker != 0 {
		t.Fatalf("fallback segments = %v", res.Segments)
	}
	if res.Segments[0].Text != "barely audible" {
		t.Errorf("fallback text = %q", res.Segments[0].Text)
	}
}

func TestDiarizeTooShortChunk(t *testing.T) {
	d := NewDiarizer(DefaultDiarizerConfig())
	res := d.Diarize(make([]float32, 100), nil)
	if res.SpeakerCount != 0 || len(res.Segments) != 0 {
		t.Fatalf("sub-frame chunk produced output: %+v", res)
	}
}

func TestDiarizeTwoSpeakers(t *testing.T) {
	const rate = 16000
	rng := rand.New(rand.NewSource(42))

	var samples []float32
	samples = append(samples, voiceTone(rng, 120, 1.5, rate)...)
	samples = append(samples, silence(0.6, rate)...)
	samples = append(samples, voiceTone(rng, 310, 1.5, rate)...)

	words := []transcript.Word{
		{Text: "how", StartMs: 200, DurationMs: 300, Features: &transcript.AcousticFeatures{Pitch: 120, Energy: 0.1}},
		{Text: "are", StartMs: 600, DurationMs: 300, Features: &transcript.AcousticFeatures{Pitch: 118, Energy: 0.1}},
		{Text: "you", StartMs: 1000, DurationMs: 300, Features: &transcript.AcousticFeatures{Pitch: 122, Energy: 0.1}},
		{Text: "fine", StartMs: 2300, DurationMs: 300, Features: &transcript.AcousticFeatures{Pitch: 310, Energy: 0.12}},
		{Text: "thanks", StartMs: 2700, DurationMs: 400, Features: &transcript.AcousticFeatures{Pitch: 305, Energy: 0.12}},
	}

	cfg := DefaultDiarizerConfig()
	// Steady synthetic tones embed much closer together than real voices;
	// tighten the merge threshold so the two remain separable.
	cfg.AHC.StopDistance = 0.02
	d := NewDiarizer(cfg)

	res := d.Diarize(samples, words)
	if res.SpeakerCount != 2 {
		t.Fatalf("speaker count = %d, want 2 (segments %v)", res.SpeakerCount, res.Segments)
	}
	if len(res.Profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(res.Profiles))
	}
	for i, p := range res.Profiles {
		if p.Index != i {
			t.Errorf("profile %d has index %d", i, p.Index)
		}
		if p.Embedding.IsZero() {
			t.Errorf("profile %d has a zero embedding", i)
		}
	}

	// Segments must be ordered, non-overlapping, and attribute the two
	// utterances to different speakers.
	for i := 1; i < len(res.Segments); i++ {
		if res.Segments[i].StartMs < res.Segments[i-1].EndMs {
			t.Fatalf("segments overlap: %v", res.Segments)
		}
	}
	first, last := res.Segments[0], res.Segments[len(res.Segments)-1]
	if first.Speaker == last.Speaker {
		t.Errorf("both utterances labeled speaker %d", first.Speaker)
	}
	if first.Text == "" || last.Text == "" {
		t.Errorf("segment text missing: %v", res.Segments)
	}
}

func TestCountSpeakersAfterRelabel(t *testing.T) {
	// A short middle turn sandwiched by one speaker gets relabeled, leaving
	// only that speaker in the final turns.
	s := NewTurnSmoother(DefaultTurnSmootherConfig())
	smoothed := s.Smooth([]Segment{
		{StartMs: 0, EndMs: 1000, Speaker: 0},
		{StartMs: 1400, EndMs: 1700, Speaker: 1},
		{StartMs: 2100, EndMs: 3100, Speaker: 0},
	})
	if got := countSpeakers(smoothed); got != 1 {
		t.Errorf("countSpeakers = %d after relabeling, want 1: %v", got, smoothed)
	}
}

func TestDiarizeConcurrentChunks(t *testing.T) {
	d := NewDiarizer(DefaultDiarizerConfig())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(f0 float64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(f0)))
			samples := append(voiceTone(rng, f0, 1.5, 16000), silence(0.5, 16000)...)
			res := d.Diarize(samples, nil)
			if res == nil || res.SpeakerCount == 0 {
				t.Errorf("%.0fHz chunk produced no speakers", f0)
			}
		}(120 + 50*float64(i))
	}
	wg.Wait()
}

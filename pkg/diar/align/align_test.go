package align

import (
	"testing"

	"github.com/vocalapp/vocal/pkg/speaker"
)

// profileWith builds a profile around a dominant embedding direction.
func profileWith(index int, direction int, pitch float64, samples int) speaker.Profile {
	values := make([]float64, speaker.EmbeddingDim)
	values[direction] = 1
	return speaker.NewProfile(index, speaker.FeatureVector{MeanPitch: pitch}, speaker.NewEmbedding(values), samples)
}

func TestAlignFirstChunkIdentityMap(t *testing.T) {
	a := New(DefaultConfig())
	profiles := []speaker.Profile{
		profileWith(0, 0, 120, 100),
		profileWith(1, 5, 220, 80),
	}

	mapping, err := a.AddChunk(0, profiles)
	if err != nil {
		t.Fatal(err)
	}
	if mapping[0] != 0 || mapping[1] != 1 {
		t.Fatalf("first chunk mapping = %v, want identity", mapping)
	}
	if got := a.Profiles(); len(got) != 2 {
		t.Fatalf("global profiles = %d, want 2", len(got))
	}
}

func TestAlignSwappedLocalOrder(t *testing.T) {
	a := New(DefaultConfig())
	if _, err := a.AddChunk(0, []speaker.Profile{
		profileWith(0, 0, 120, 100), // global 0
		profileWith(1, 5, 220, 100), // global 1
	}); err != nil {
		t.Fatal(err)
	}

	// The second chunk presents the same two voices with swapped local
	// indices; alignment must follow the acoustics, not the positions.
	mapping, err := a.AddChunk(1, []speaker.Profile{
		profileWith(0, 5, 221, 90),
		profileWith(1, 0, 119, 90),
	})
	if err != nil {
		t.Fatal(err)
	}
	if mapping[0] != 1 {
		t.Errorf("local 0 mapped to global %d, want 1", mapping[0])
	}
	if mapping[1] != 0 {
		t.Errorf("local 1 mapped to global %d, want 0", mapping[1])
	}
	if got := a.Profiles(); len(got) != 2 {
		t.Fatalf("global profiles grew to %d", len(got))
	}
}

func TestAlignNewSpeakerGetsFreshIndex(t *testing.T) {
	a := New(DefaultConfig())
	if _, err := a.AddChunk(0, []speaker.Profile{profileWith(0, 0, 120, 100)}); err != nil {
		t.Fatal(err)
	}

	mapping, err := a.AddChunk(1, []speaker.Profile{
		profileWith(0, 0, 120, 50),  // same voice
		profileWith(1, 40, 300, 50), // unseen voice
	})
	if err != nil {
		t.Fatal(err)
	}
	if mapping[0] != 0 {
		t.Errorf("returning speaker mapped to %d, want 0", mapping[0])
	}
	if mapping[1] != 1 {
		t.Errorf("new speaker mapped to %d, want fresh index 1", mapping[1])
	}
}

func TestAlignMergesSampleCounts(t *testing.T) {
	a := New(DefaultConfig())
	if _, err := a.AddChunk(0, []speaker.Profile{profileWith(0, 0, 120, 100)}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.AddChunk(1, []speaker.Profile{profileWith(0, 0, 124, 100)}); err != nil {
		t.Fatal(err)
	}

	got := a.Profiles()
	if len(got) != 1 {
		t.Fatalf("global profiles = %d, want 1", len(got))
	}
	if got[0].SampleCount != 200 {
		t.Errorf("merged sample count = %d, want 200", got[0].SampleCount)
	}
	if got[0].Centroid.MeanPitch != 122 {
		t.Errorf("merged pitch = %f, want 122", got[0].Centroid.MeanPitch)
	}
}

func TestAlignFeatureFallback(t *testing.T) {
	a := New(DefaultConfig())
	// Chunk profiles without embeddings fall back to the feature metric.
	withoutEmbedding := func(index int, pitch float64) speaker.Profile {
		return speaker.NewProfile(index, speaker.FeatureVector{MeanPitch: pitch, MeanEnergy: 0.1}, speaker.Embedding{}, 10)
	}

	if _, err := a.AddChunk(0, []speaker.Profile{withoutEmbedding(0, 120)}); err != nil {
		t.Fatal(err)
	}
	mapping, err := a.AddChunk(1, []speaker.Profile{withoutEmbedding(0, 125)})
	if err != nil {
		t.Fatal(err)
	}
	if mapping[0] != 0 {
		t.Errorf("close pitch profile mapped to %d, want 0", mapping[0])
	}

	mapping, err = a.AddChunk(2, []speaker.Profile{withoutEmbedding(0, 320)})
	if err != nil {
		t.Fatal(err)
	}
	if mapping[0] != 1 {
		t.Errorf("distant pitch profile mapped to %d, want new index 1", mapping[0])
	}
}

func TestAlignOutOfOrderChunk(t *testing.T) {
	a := New(DefaultConfig())
	if _, err := a.AddChunk(1, nil); err == nil {
		t.Fatal("expected error for out-of-order chunk index")
	}
	if _, err := a.AddChunk(0, nil); err != nil {
		t.Fatalf("chunk 0 rejected after failed add: %v", err)
	}
}

func TestAlignMapSnapshot(t *testing.T) {
	a := New(DefaultConfig())
	if _, err := a.AddChunk(0, []speaker.Profile{profileWith(0, 0, 120, 100)}); err != nil {
		t.Fatal(err)
	}

	m := a.Map()
	if len(m.Chunks) != 1 || len(m.Profiles) != 1 {
		t.Fatalf("map = %+v", m)
	}
	// Mutating the snapshot must not leak into the aligner.
	m.Chunks[0][0] = 99
	if a.Map().Chunks[0][0] != 0 {
		t.Error("snapshot shares state with the aligner")
	}
}

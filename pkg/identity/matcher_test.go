package identity

import (
	"math"
	"testing"

	"github.com/vocalapp/vocal/pkg/speaker"
)

// unitEmbedding builds an embedding pointing along one axis.
func unitEmbedding(axis int) speaker.Embedding {
	values := make([]float64, speaker.EmbeddingDim)
	values[axis] = 1
	return speaker.NewEmbedding(values)
}

// tiltedEmbedding mixes two axes so the cosine distance to axis a is
// controllable.
func tiltedEmbedding(a, b int, tilt float64) speaker.Embedding {
	values := make([]float64, speaker.EmbeddingDim)
	values[a] = 1 - tilt
	values[b] = tilt
	return speaker.NewEmbedding(values)
}

func enrollmentFor(t *testing.T, emb speaker.Embedding) *EnrollmentProfile {
	t.Helper()
	return NewEnrollmentProfile(emb, speaker.FeatureVector{MeanPitch: 120}, QualityStats{SampleCount: 500})
}

func profileWith(emb speaker.Embedding) speaker.Profile {
	return speaker.NewProfile(0, speaker.FeatureVector{MeanPitch: 120}, emb, 100)
}

func TestMatchAccepts(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	r := m.Match(profileWith(unitEmbedding(0)))
	if r.Identity != IdentityMe {
		t.Fatalf("identical voice classified %q (%s)", r.Identity, r.DecisionReason)
	}
	if r.Distance > 1e-9 {
		t.Errorf("distance = %f, want ~0", r.Distance)
	}
	if math.Abs(r.Confidence-1) > 1e-9 {
		t.Errorf("confidence = %f, want 1", r.Confidence)
	}
	if r.DecisionReason != ReasonMatched {
		t.Errorf("reason = %q", r.DecisionReason)
	}
}

func TestMatchRejectsDistantVoice(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	r := m.Match(profileWith(unitEmbedding(1)))
	if r.Identity != IdentityUnknown {
		t.Fatalf("orthogonal voice classified %q", r.Identity)
	}
	if r.DecisionReason != ReasonDistanceTooFar {
		t.Errorf("reason = %q, want %q", r.DecisionReason, ReasonDistanceTooFar)
	}
	if r.Confidence != 0 {
		t.Errorf("rejected match has confidence %f", r.Confidence)
	}
}

func TestMatchWithoutEnrollment(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig(), nil)
	r := m.Match(profileWith(unitEmbedding(0)))
	if r.Identity != IdentityUnknown || r.DecisionReason != ReasonNoEnrollment {
		t.Fatalf("nil enrollment: %+v", r)
	}
}

func TestMatchInactiveEnrollment(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	enrollment.Active = false
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	r := m.Match(profileWith(unitEmbedding(0)))
	if r.Identity != IdentityUnknown || r.DecisionReason != ReasonNoEnrollment {
		t.Fatalf("inactive enrollment: %+v", r)
	}
}

func TestMatchProfileWithoutEmbedding(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	r := m.Match(speaker.NewProfile(0, speaker.FeatureVector{MeanPitch: 120}, speaker.Embedding{}, 10))
	if r.Identity != IdentityUnknown || r.DecisionReason != ReasonNoEmbedding {
		t.Fatalf("embedding-less profile: %+v", r)
	}
}

func TestMatchAllOrder(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	results := m.MatchAll([]speaker.Profile{
		profileWith(unitEmbedding(1)),
		profileWith(unitEmbedding(0)),
	})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Identity != IdentityUnknown || results[1].Identity != IdentityMe {
		t.Fatalf("results = %+v", results)
	}
}

func TestShouldAdaptProfile(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	// A perfect match adapts.
	perfect := m.Match(profileWith(unitEmbedding(0)))
	if !m.ShouldAdaptProfile(perfect) {
		t.Error("perfect match did not trigger adaptation")
	}

	// A borderline accept does not.
	borderline := m.Match(profileWith(tiltedEmbedding(0, 1, 0.35)))
	if borderline.Identity != IdentityMe {
		t.Fatalf("borderline sample rejected outright: %+v", borderline)
	}
	if m.ShouldAdaptProfile(borderline) {
		t.Errorf("borderline match (confidence %f) triggered adaptation", borderline.Confidence)
	}

	// A rejection never adapts.
	if m.ShouldAdaptProfile(m.Match(profileWith(unitEmbedding(1)))) {
		t.Error("rejected match triggered adaptation")
	}
}

func TestAdaptWithBumpsVersion(t *testing.T) {
	enrollment := enrollmentFor(t, unitEmbedding(0))
	m := NewMatcher(DefaultMatcherConfig(), enrollment)

	sample := tiltedEmbedding(0, 1, 0.05)
	r := m.Match(profileWith(sample))
	next := m.AdaptWith(r, sample)
	if next == nil {
		t.Fatal("high-confidence match did not adapt")
	}
	if next.Version != enrollment.Version+1 {
		t.Errorf("version = %d, want %d", next.Version, enrollment.Version+1)
	}
	if next.AdaptationCount != enrollment.AdaptationCount+1 {
		t.Errorf("adaptation count = %d", next.AdaptationCount)
	}
	if enrollment.Version != 1 {
		t.Error("Adapt mutated the original profile")
	}

	// The new reference moved toward the sample but stayed unit norm.
	moved := next.Embedding().CosineDistance(sample)
	orig := enrollment.Embedding().CosineDistance(sample)
	if moved >= orig {
		t.Errorf("reference did not move toward sample: %f >= %f", moved, orig)
	}
	var norm float64
	for _, v := range next.ReferenceEmbedding {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
		t.Errorf("adapted reference norm = %f", math.Sqrt(norm))
	}
}

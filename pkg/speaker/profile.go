package speaker

import (
	"github.com/google/uuid"
)

// Profile represents one speaker within one chunk, or one global speaker
// across a session. It carries a running feature-vector centroid, an optional
// MFCC embedding, and the number of samples that contributed to the centroid.
//
// Profiles are value types: Merging returns a new Profile and never mutates
// the receiver.
type Profile struct {
	// ID is a stable unique identifier for the profile.
	ID string

	// Index is the chunk-local or session-global speaker index.
	Index int

	// Centroid is the running mean of the speaker's feature vectors.
	Centroid FeatureVector

	// Embedding is the speaker's MFCC embedding, averaged over contributing
	// segments. May be zero when only recognizer features were available.
	Embedding Embedding

	// SampleCount is the number of samples folded into the centroid.
	SampleCount int
}

// NewProfile creates a Profile with a fresh ID.
func NewProfile(index int, centroid FeatureVector, embedding Embedding, samples int) Profile {
	if samples < 1 {
		samples = 1
	}
	return Profile{
		ID:          uuid.NewString(),
		Index:       index,
		Centroid:    centroid,
		Embedding:   embedding,
		SampleCount: samples,
	}
}

// Merging folds another profile into this one, weighting both centroids by
// their sample counts, and returns the combined profile. The receiver's ID
// and Index are kept.
//
// Repeated merges are NOT commutative: merging A then B walks the centroid
// differently than B then A. Callers must apply merges in encounter order
// (ascending chunk index) to get reproducible session profiles.
func (p Profile) Merging(o Profile) Profile {
	total := p.SampleCount + o.SampleCount
	if total == 0 {
		return p
	}
	w := float64(o.SampleCount) / float64(total)

	merged := p
	merged.Centroid = lerp(p.Centroid, o.Centroid, w)
	merged.SampleCount = total

	switch {
	case p.Embedding.IsZero():
		merged.Embedding = o.Embedding
	case o.Embedding.IsZero():
		merged.Embedding = p.Embedding
	default:
		pv, ov := p.Embedding.Values(), o.Embedding.Values()
		mixed := make([]float64, len(pv))
		for i := range mixed {
			mixed[i] = pv[i]*(1-w) + ov[i]*w
		}
		// Re-normalize through the constructor.
		merged.Embedding = NewEmbedding(mixed)
	}
	return merged
}

// NewID returns a fresh profile identifier. Exposed so stores can mint IDs
// consistently with NewProfile.
func NewID() string { return uuid.NewString() }

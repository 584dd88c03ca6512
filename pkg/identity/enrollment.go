package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vocalapp/vocal/pkg/speaker"
)

// QualityStats summarizes the material the enrollment was built from.
type QualityStats struct {
	// SampleCount is the number of frames behind the reference embedding.
	SampleCount int `msgpack:"sampleCount"`

	// MeanConfidence is the average recognizer confidence of the
	// enrollment utterances, 0 when unknown.
	MeanConfidence float64 `msgpack:"meanConfidence"`
}

// EnrollmentProfile is the persisted voice reference for one user.
//
// The profile is a value that evolves through versions: Adapt returns an
// updated copy with a bumped Version rather than mutating in place, so a
// caller can persist the new version and keep the old one for rollback.
type EnrollmentProfile struct {
	// ID identifies the profile in storage.
	ID string `msgpack:"id"`

	// Name is the user-facing label, "default" when the user gave none.
	Name string `msgpack:"name"`

	// ReferenceEmbedding is the enrolled voice's unit-norm embedding.
	ReferenceEmbedding []float64 `msgpack:"referenceEmbedding"`

	// ReferenceCentroid is the enrolled voice's feature centroid, used
	// for diagnostics and as a fallback comparison space.
	ReferenceCentroid speaker.FeatureVector `msgpack:"referenceCentroid"`

	// Version increments on every adaptation.
	Version int `msgpack:"version"`

	// Quality records how much material backs the reference.
	Quality QualityStats `msgpack:"quality"`

	// AdaptationCount is the number of post-enrollment adaptations.
	AdaptationCount int `msgpack:"adaptationCount"`

	// UpdatedAt is the time of the last version change.
	UpdatedAt time.Time `msgpack:"updatedAt"`

	// Active is false once the user deactivates the profile; inactive
	// profiles are kept for audit but never matched against.
	Active bool `msgpack:"active"`
}

// NewEnrollmentProfile creates a version-1 active profile with a fresh ID.
func NewEnrollmentProfile(embedding speaker.Embedding, centroid speaker.FeatureVector, quality QualityStats) *EnrollmentProfile {
	return &EnrollmentProfile{
		ID:                 uuid.NewString(),
		Name:               "default",
		ReferenceEmbedding: append([]float64(nil), embedding.Values()...),
		ReferenceCentroid:  centroid,
		Version:            1,
		Quality:            quality,
		UpdatedAt:          time.Now().UTC(),
		Active:             true,
	}
}

// Embedding returns the reference embedding as a comparison-ready value.
func (p *EnrollmentProfile) Embedding() speaker.Embedding {
	return speaker.NewEmbedding(p.ReferenceEmbedding)
}

// Adapt returns a new profile version whose reference has moved toward the
// sample by the given step in [0, 1]. The receiver is unchanged.
func (p *EnrollmentProfile) Adapt(sample speaker.Embedding, step float64) *EnrollmentProfile {
	if step < 0 {
		step = 0
	}
	if step > 1 {
		step = 1
	}

	ref := p.Embedding().Values()
	sv := sample.Values()
	mixed := make([]float64, len(ref))
	for i := range mixed {
		mixed[i] = (1-step)*ref[i] + step*sv[i]
	}

	next := *p
	next.ReferenceEmbedding = speaker.NewEmbedding(mixed).Values()
	next.Version = p.Version + 1
	next.AdaptationCount = p.AdaptationCount + 1
	next.UpdatedAt = time.Now().UTC()
	return &next
}

// Encode serializes the profile with msgpack.
func (p *EnrollmentProfile) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("identity: encode profile %s: %w", p.ID, err)
	}
	return data, nil
}

// DecodeEnrollmentProfile deserializes a msgpack-encoded profile.
func DecodeEnrollmentProfile(data []byte) (*EnrollmentProfile, error) {
	var p EnrollmentProfile
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("identity: decode profile: %w", err)
	}
	return &p, nil
}

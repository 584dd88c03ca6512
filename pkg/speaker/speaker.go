// Package speaker defines the shared value types of the diarization
// pipelines: fixed-size acoustic embeddings, scalar feature vectors and
// running speaker profiles.
//
// # Types
//
//   - Embedding: L2-normalized acoustic fingerprint compared via cosine
//     distance
//   - FeatureVector: six scalar acoustic descriptors with a pitch-weighted
//     distance
//   - Profile: one speaker within a chunk or session, holding a running
//     centroid that is merged across chunks
//
// Embeddings and feature vectors are immutable once constructed. Profiles are
// mutated only through Merging, which returns a new value.
package speaker

import "math"

// EmbeddingDim is the dimension of segment embeddings: 13 MFCC means,
// 13 MFCC standard deviations, 13 delta means, 13 delta-delta means and the
// 78 upper-triangular entries of the 13×13 MFCC correlation matrix.
const EmbeddingDim = 130

// Embedding is a fixed-size acoustic fingerprint of a speech span.
// Values are L2-normalized at construction; the zero vector is the only
// exception and stays zero rather than producing NaN.
type Embedding struct {
	values []float64
}

// NewEmbedding constructs an Embedding from raw values, normalizing them to
// unit L2 norm. The input slice is copied.
func NewEmbedding(values []float64) Embedding {
	v := make([]float64, len(values))
	copy(v, values)

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	return Embedding{values: v}
}

// Values returns the normalized vector. The returned slice must not be
// modified.
func (e Embedding) Values() []float64 { return e.values }

// Dim returns the embedding dimension.
func (e Embedding) Dim() int { return len(e.values) }

// IsZero reports whether the embedding is absent or all-zero.
func (e Embedding) IsZero() bool {
	for _, v := range e.values {
		if v != 0 {
			return false
		}
	}
	return true
}

// CosineSimilarity computes the cosine similarity to another embedding.
// For unit vectors this is the dot product. A zero embedding on either side
// yields 0.
func (e Embedding) CosineSimilarity(o Embedding) float64 {
	if len(e.values) != len(o.values) {
		panic("speaker: embedding dimension mismatch")
	}
	var dot, na, nb float64
	for i := range e.values {
		dot += e.values[i] * o.values[i]
		na += e.values[i] * e.values[i]
		nb += o.values[i] * o.values[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// CosineDistance returns 1 − cosine similarity.
func (e Embedding) CosineDistance(o Embedding) float64 {
	return 1.0 - e.CosineSimilarity(o)
}

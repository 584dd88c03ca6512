package diar

import (
	"math"

	"github.com/vocalapp/vocal/pkg/audio/mfcc"
	"github.com/vocalapp/vocal/pkg/speaker"
)

// SegmentEmbedder summarizes a contiguous span of MFCC frames into a
// fixed-size speaker embedding:
//
//	13 MFCC means ⊕ 13 MFCC standard deviations ⊕ 13 delta means
//	⊕ 13 delta-delta means ⊕ 78 upper-triangular correlation entries
//
// for a 130-dimensional vector, L2-normalized by the speaker.Embedding
// constructor. The embedding is a deterministic function of its frames.
type SegmentEmbedder struct{}

// NewSegmentEmbedder creates a SegmentEmbedder.
func NewSegmentEmbedder() *SegmentEmbedder {
	return &SegmentEmbedder{}
}

// Embed computes the embedding of frames[start:end]. ok is false for an
// empty span (absent result, not an error).
func (e *SegmentEmbedder) Embed(frames []mfcc.Frame, start, end int) (speaker.Embedding, bool) {
	if start < 0 {
		start = 0
	}
	if end > len(frames) {
		end = len(frames)
	}
	n := end - start
	if n <= 0 {
		return speaker.Embedding{}, false
	}

	numCoeffs := len(frames[start].Coeffs)
	fn := float64(n)

	mean := make([]float64, numCoeffs)
	meanDelta := make([]float64, numCoeffs)
	meanDeltaDelta := make([]float64, numCoeffs)
	for i := start; i < end; i++ {
		for c := 0; c < numCoeffs; c++ {
			mean[c] += frames[i].Coeffs[c]
			meanDelta[c] += frames[i].Delta[c]
			meanDeltaDelta[c] += frames[i].DeltaDelta[c]
		}
	}
	for c := 0; c < numCoeffs; c++ {
		mean[c] /= fn
		meanDelta[c] /= fn
		meanDeltaDelta[c] /= fn
	}

	stddev := make([]float64, numCoeffs)
	for i := start; i < end; i++ {
		for c := 0; c < numCoeffs; c++ {
			d := frames[i].Coeffs[c] - mean[c]
			stddev[c] += d * d
		}
	}
	for c := 0; c < numCoeffs; c++ {
		stddev[c] = math.Sqrt(stddev[c] / fn)
	}

	// Strict upper triangle of the cross-coefficient correlation matrix:
	// 13·12/2 = 78 entries.
	corr := make([]float64, 0, numCoeffs*(numCoeffs-1)/2)
	for a := 0; a < numCoeffs; a++ {
		for b := a + 1; b < numCoeffs; b++ {
			var cov float64
			for i := start; i < end; i++ {
				cov += (frames[i].Coeffs[a] - mean[a]) * (frames[i].Coeffs[b] - mean[b])
			}
			cov /= fn
			denom := stddev[a] * stddev[b]
			if denom < 1e-10 {
				corr = append(corr, 0)
				continue
			}
			corr = append(corr, cov/denom)
		}
	}

	values := make([]float64, 0, speaker.EmbeddingDim)
	values = append(values, mean...)
	values = append(values, stddev...)
	values = append(values, meanDelta...)
	values = append(values, meanDeltaDelta...)
	values = append(values, corr...)

	return speaker.NewEmbedding(values), true
}

package speaker

import "math"

// FeatureVector holds six scalar acoustic descriptors of a speaker's voice.
// It is the fallback comparison space when an MFCC embedding is unavailable
// (for example when a chunk contributed only word-level features from the
// recognizer).
type FeatureVector struct {
	MeanPitch            float64
	PitchStdDev          float64
	MeanEnergy           float64
	MeanSpectralCentroid float64
	MeanJitter           float64
	MeanShimmer          float64
}

// featureWeights emphasize pitch statistics, which discriminate speakers more
// reliably than the energy and voice-quality terms.
var featureWeights = [6]float64{2.0, 1.5, 1.0, 1.0, 0.5, 0.5}

// featureScales normalize each dimension to a comparable magnitude before
// weighting (pitch in Hz, centroid in Hz, the rest near unit scale).
var featureScales = [6]float64{100.0, 50.0, 0.1, 1000.0, 0.05, 0.1}

// values returns the vector as an ordered array.
func (f FeatureVector) values() [6]float64 {
	return [6]float64{
		f.MeanPitch,
		f.PitchStdDev,
		f.MeanEnergy,
		f.MeanSpectralCentroid,
		f.MeanJitter,
		f.MeanShimmer,
	}
}

// IsZero reports whether all descriptors are zero.
func (f FeatureVector) IsZero() bool {
	return f == FeatureVector{}
}

// WeightedDistance computes a weighted Euclidean distance to another feature
// vector, with each dimension scaled to a comparable range and pitch terms
// emphasized.
func (f FeatureVector) WeightedDistance(o FeatureVector) float64 {
	a, b := f.values(), o.values()
	var sum float64
	for i := range a {
		d := (a[i] - b[i]) / featureScales[i]
		sum += featureWeights[i] * d * d
	}
	return math.Sqrt(sum)
}

// Centroid averages a set of feature vectors. An empty input yields the zero
// vector.
func Centroid(vs []FeatureVector) FeatureVector {
	if len(vs) == 0 {
		return FeatureVector{}
	}
	var acc [6]float64
	for _, v := range vs {
		vals := v.values()
		for i := range acc {
			acc[i] += vals[i]
		}
	}
	n := float64(len(vs))
	return FeatureVector{
		MeanPitch:            acc[0] / n,
		PitchStdDev:          acc[1] / n,
		MeanEnergy:           acc[2] / n,
		MeanSpectralCentroid: acc[3] / n,
		MeanJitter:           acc[4] / n,
		MeanShimmer:          acc[5] / n,
	}
}

// lerp linearly interpolates each dimension between a and b.
// t = 0 yields a, t = 1 yields b.
func lerp(a, b FeatureVector, t float64) FeatureVector {
	av, bv := a.values(), b.values()
	var out [6]float64
	for i := range out {
		out[i] = av[i] + (bv[i]-av[i])*t
	}
	return FeatureVector{
		MeanPitch:            out[0],
		PitchStdDev:          out[1],
		MeanEnergy:           out[2],
		MeanSpectralCentroid: out[3],
		MeanJitter:           out[4],
		MeanShimmer:          out[5],
	}
}

package diar

import (
	"math"

	"github.com/vocalapp/vocal/pkg/speaker"
)

// AHCConfig configures agglomerative hierarchical clustering of segment
// embeddings.
type AHCConfig struct {
	// StopDistance halts merging once the closest pair of clusters is
	// farther apart than this cosine distance. Default: 0.35.
	StopDistance float64

	// MaxClusters caps the number of speakers per chunk; merging continues
	// past StopDistance until the cap is met. Default: 8.
	MaxClusters int
}

// DefaultAHCConfig returns the tuned defaults.
func DefaultAHCConfig() AHCConfig {
	return AHCConfig{
		StopDistance: 0.35,
		MaxClusters:  8,
	}
}

// AHCClusterer assigns chunk-local speaker labels to segment embeddings with
// bottom-up average-linkage clustering over cosine distance.
type AHCClusterer struct {
	cfg AHCConfig
}

// NewAHCClusterer creates an AHCClusterer with the given config.
func NewAHCClusterer(cfg AHCConfig) *AHCClusterer {
	if cfg.StopDistance <= 0 {
		cfg.StopDistance = 0.35
	}
	if cfg.MaxClusters <= 0 {
		cfg.MaxClusters = 8
	}
	return &AHCClusterer{cfg: cfg}
}

// Cluster returns contiguous 0-based labels, one per embedding, and the
// number of distinct clusters. Zero inputs yield (0, empty); one input
// yields one cluster. The cluster count never exceeds MaxClusters.
func (c *AHCClusterer) Cluster(embeddings []speaker.Embedding) (numClusters int, labels []int) {
	n := len(embeddings)
	if n == 0 {
		return 0, []int{}
	}

	// members[i] holds the embedding indices of live cluster i.
	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}

	// Pairwise cosine distances between individual embeddings; cluster
	// distance is the average over cross pairs (average linkage).
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			dist[i][j] = embeddings[i].CosineDistance(embeddings[j])
		}
	}

	linkage := func(a, b []int) float64 {
		var sum float64
		for _, i := range a {
			for _, j := range b {
				sum += dist[i][j]
			}
		}
		return sum / float64(len(a)*len(b))
	}

	live := len(members)
	for live > 1 {
		// Find the closest pair of live clusters.
		bestA, bestB := -1, -1
		bestD := math.Inf(1)
		for a := range members {
			if members[a] == nil {
				continue
			}
			for b := a + 1; b < len(members); b++ {
				if members[b] == nil {
					continue
				}
				if d := linkage(members[a], members[b]); d < bestD {
					bestD, bestA, bestB = d, a, b
				}
			}
		}

		// Stop once clusters are separated, unless still above the cap.
		if bestD > c.cfg.StopDistance && live <= c.cfg.MaxClusters {
			break
		}

		members[bestA] = append(members[bestA], members[bestB]...)
		members[bestB] = nil
		live--
	}

	labels = make([]int, n)
	numClusters = 0
	for _, m := range members {
		if m == nil {
			continue
		}
		for _, idx := range m {
			labels[idx] = numClusters
		}
		numClusters++
	}
	return numClusters, labels
}

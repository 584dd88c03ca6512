// Package align folds chunk-local diarization results into session-global
// speaker identities.
//
// Per-chunk clustering labels speakers 0..k-1 independently for every chunk,
// so "speaker 0" in one chunk need not be "speaker 0" in the next. The
// Aligner matches each chunk's local profiles against the running global
// profile list by acoustic distance and produces a local-to-global index map
// per chunk. Alignment is a stateful fold over chunks in ascending index
// order; per-chunk analysis may run concurrently, but results must be handed
// to the Aligner sequentially (see ChunkQueue).
package align

import (
	"fmt"

	"github.com/vocalapp/vocal/pkg/speaker"
)

// Config holds the match acceptance thresholds.
type Config struct {
	// EmbeddingThreshold is the largest cosine distance between MFCC
	// embeddings accepted as the same speaker. Default: 0.35.
	EmbeddingThreshold float64

	// FeatureThreshold is the largest weighted feature-vector distance
	// accepted when one side lacks an embedding. Default: 2.0.
	FeatureThreshold float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		EmbeddingThreshold: 0.35,
		FeatureThreshold:   2.0,
	}
}

// GlobalSpeakerMap is the session-wide labeling accumulated by an Aligner:
// one local-to-global index map per chunk plus the global profile list.
// Global indices are assigned monotonically and never reused.
type GlobalSpeakerMap struct {
	// Chunks maps chunk index to its {local index → global index} map.
	Chunks map[int]map[int]int

	// Profiles is the global profile list, indexed by global speaker index.
	Profiles []speaker.Profile
}

// Aligner matches chunk-local speakers to global speakers across an ordered
// chunk sequence. It is a sequential fold and is not safe for concurrent
// use; feed it from a single goroutine, in chunk-index order.
type Aligner struct {
	cfg       Config
	profiles  []speaker.Profile
	chunks    map[int]map[int]int
	nextChunk int
}

// New creates an Aligner.
func New(cfg Config) *Aligner {
	if cfg.EmbeddingThreshold <= 0 {
		cfg.EmbeddingThreshold = 0.35
	}
	if cfg.FeatureThreshold <= 0 {
		cfg.FeatureThreshold = 2.0
	}
	return &Aligner{
		cfg:    cfg,
		chunks: make(map[int]map[int]int),
	}
}

// AddChunk folds one chunk's local profiles into the global state and
// returns the chunk's {local index → global index} map. Chunks must arrive
// in ascending index order starting at 0; an out-of-order index is an error
// and leaves the state untouched.
//
// The first chunk maps local indices identically onto fresh global indices.
// Later chunks match each local speaker greedily to the nearest unclaimed
// global profile: cosine distance over embeddings when both sides have one,
// otherwise weighted feature distance over centroids. A match within the
// threshold merges the local profile into the global one, sample-count
// weighted; anything farther becomes a new global speaker.
func (a *Aligner) AddChunk(chunkIndex int, profiles []speaker.Profile) (map[int]int, error) {
	if chunkIndex != a.nextChunk {
		return nil, fmt.Errorf("align: chunk %d out of order, want %d", chunkIndex, a.nextChunk)
	}
	a.nextChunk++

	mapping := make(map[int]int, len(profiles))
	claimed := make(map[int]bool, len(profiles))

	for local, p := range profiles {
		global, ok := a.nearest(p, claimed)
		if ok {
			a.profiles[global] = a.profiles[global].Merging(p)
		} else {
			global = len(a.profiles)
			np := p
			np.Index = global
			a.profiles = append(a.profiles, np)
		}
		claimed[global] = true
		mapping[local] = global
	}

	a.chunks[chunkIndex] = mapping
	return mapping, nil
}

// nearest finds the closest unclaimed global profile within the acceptance
// threshold of the applicable metric. ok is false when nothing qualifies.
func (a *Aligner) nearest(p speaker.Profile, claimed map[int]bool) (int, bool) {
	best := -1
	bestDist := 0.0
	for g, gp := range a.profiles {
		if claimed[g] {
			continue
		}
		dist, ok := profileDistance(gp, p, a.cfg)
		if !ok {
			continue
		}
		if best < 0 || dist < bestDist {
			best = g
			bestDist = dist
		}
	}
	return best, best >= 0
}

// profileDistance compares two profiles with the best available metric and
// reports whether the distance is within its acceptance threshold.
func profileDistance(a, b speaker.Profile, cfg Config) (float64, bool) {
	if !a.Embedding.IsZero() && !b.Embedding.IsZero() {
		d := a.Embedding.CosineDistance(b.Embedding)
		return d, d <= cfg.EmbeddingThreshold
	}
	if !a.Centroid.IsZero() && !b.Centroid.IsZero() {
		d := a.Centroid.WeightedDistance(b.Centroid)
		return d, d <= cfg.FeatureThreshold
	}
	return 0, false
}

// Map returns a snapshot of the accumulated session-wide labeling.
func (a *Aligner) Map() GlobalSpeakerMap {
	chunks := make(map[int]map[int]int, len(a.chunks))
	for ci, m := range a.chunks {
		cm := make(map[int]int, len(m))
		for l, g := range m {
			cm[l] = g
		}
		chunks[ci] = cm
	}
	return GlobalSpeakerMap{
		Chunks:   chunks,
		Profiles: append([]speaker.Profile(nil), a.profiles...),
	}
}

// Profiles returns the current global profile list.
func (a *Aligner) Profiles() []speaker.Profile {
	return append([]speaker.Profile(nil), a.profiles...)
}

package diar

import (
	"log/slog"
	"strings"

	"github.com/vocalapp/vocal/pkg/audio/mfcc"
	"github.com/vocalapp/vocal/pkg/speaker"
	"github.com/vocalapp/vocal/pkg/transcript"
)

// DiarizerConfig bundles the stage configurations of the offline pipeline.
type DiarizerConfig struct {
	MFCC     mfcc.Config
	VAD      EnergyVADConfig
	BIC      BICSegmenterConfig
	AHC      AHCConfig
	Smoother TurnSmootherConfig
}

// DefaultDiarizerConfig returns each stage's defaults.
func DefaultDiarizerConfig() DiarizerConfig {
	return DiarizerConfig{
		MFCC:     mfcc.DefaultConfig(),
		VAD:      DefaultEnergyVADConfig(),
		BIC:      DefaultBICSegmenterConfig(),
		AHC:      DefaultAHCConfig(),
		Smoother: DefaultTurnSmootherConfig(),
	}
}

// Diarizer runs the full per-chunk pipeline: MFCC extraction, energy VAD,
// BIC change detection, segment embedding, agglomerative clustering, turn
// smoothing, and word attribution. All per-call state lives on the stack
// and the stage configs are read-only after construction, so one Diarizer
// may serve concurrent chunk analyses.
type Diarizer struct {
	extractor *mfcc.Extractor
	vad       *EnergyVAD
	segmenter *BICSegmenter
	embedder  *SegmentEmbedder
	clusterer *AHCClusterer
	smoother  *TurnSmoother
	log       *slog.Logger
}

// DiarizerOption customizes a Diarizer.
type DiarizerOption func(*Diarizer)

// WithLogger sets the logger for per-stage diagnostics.
func WithLogger(log *slog.Logger) DiarizerOption {
	return func(d *Diarizer) { d.log = log }
}

// NewDiarizer creates a Diarizer with the given stage configs.
func NewDiarizer(cfg DiarizerConfig, opts ...DiarizerOption) *Diarizer {
	d := &Diarizer{
		extractor: mfcc.New(cfg.MFCC),
		vad:       NewEnergyVAD(cfg.VAD),
		segmenter: NewBICSegmenter(cfg.BIC),
		embedder:  NewSegmentEmbedder(),
		clusterer: NewAHCClusterer(cfg.AHC),
		smoother:  NewTurnSmoother(cfg.Smoother),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diarize processes one chunk of 16-bit-range float samples together with
// its transcript words. It always returns a Result; a chunk too short to
// analyze or with no detected speech falls back to a single segment holding
// the whole transcript under speaker 0.
func (d *Diarizer) Diarize(samples []float32, words []transcript.Word) *Result {
	frames := d.extractor.Extract(samples)
	if len(frames) == 0 {
		d.log.Debug("chunk too short for analysis", "samples", len(samples))
		return d.emptyResult(words)
	}

	energies := make([]float64, len(frames))
	for i, f := range frames {
		energies[i] = f.Energy
	}
	regions := d.vad.DetectRegions(energies)
	if len(regions) == 0 {
		d.log.Debug("no speech regions detected", "frames", len(frames))
		return d.emptyResult(words)
	}

	spans, embeddings := d.segmentRegions(frames, regions)
	if len(spans) == 0 {
		return d.emptyResult(words)
	}

	numClusters, labels := d.clusterer.Cluster(embeddings)
	frameDur := d.extractor.FrameDurationMs()

	segments := make([]Segment, len(spans))
	for i, sp := range spans {
		segments[i] = Segment{
			StartMs: frames[sp.Start].TimeMs,
			EndMs:   frames[sp.End-1].TimeMs + frameDur,
			Speaker: labels[i],
		}
	}
	segments = d.smoother.Smooth(segments)
	// Smoothing can relabel a speaker's only turn away; count the labels
	// the final turns still reference.
	speakers := countSpeakers(segments)

	d.log.Debug("chunk diarized",
		"regions", len(regions),
		"segments", len(segments),
		"clusters", numClusters,
		"speakers", speakers)

	return &Result{
		Segments:     d.renderSegments(segments, words),
		SpeakerCount: speakers,
		Profiles:     d.buildProfiles(numClusters, labels, spans, embeddings, segments, words),
	}
}

// countSpeakers returns the number of distinct labels referenced by the
// segments.
func countSpeakers(segments []Segment) int {
	seen := make(map[int]struct{}, 4)
	for _, seg := range segments {
		seen[seg.Speaker] = struct{}{}
	}
	return len(seen)
}

// segmentRegions splits each speech region at its BIC change points and
// embeds every resulting span. Spans whose embedding degenerates (all-zero
// statistics) are dropped.
func (d *Diarizer) segmentRegions(frames []mfcc.Frame, regions []Region) ([]Region, []speaker.Embedding) {
	var spans []Region
	var embeddings []speaker.Embedding
	for _, region := range regions {
		points := d.segmenter.Segment(frames, region)
		bounds := make([]int, 0, len(points)+2)
		bounds = append(bounds, region.Start)
		for _, p := range points {
			bounds = append(bounds, p.Frame)
		}
		bounds = append(bounds, region.End)

		for i := 0; i+1 < len(bounds); i++ {
			start, end := bounds[i], bounds[i+1]
			emb, ok := d.embedder.Embed(frames, start, end)
			if !ok || emb.IsZero() {
				continue
			}
			spans = append(spans, Region{Start: start, End: end})
			embeddings = append(embeddings, emb)
		}
	}
	return spans, embeddings
}

// renderSegments attaches transcript text to each smoothed segment.
func (d *Diarizer) renderSegments(segments []Segment, words []transcript.Word) []DiarizedSegment {
	texts := make([][]string, len(segments))
	for _, w := range words {
		if i := segmentIndexFor(w, segments); i >= 0 {
			texts[i] = append(texts[i], w.Text)
		}
	}
	out := make([]DiarizedSegment, len(segments))
	for i, seg := range segments {
		out[i] = DiarizedSegment{
			Speaker: seg.Speaker,
			Text:    strings.Join(texts[i], " "),
			StartMs: seg.StartMs,
			EndMs:   seg.EndMs,
		}
	}
	return out
}

// buildProfiles aggregates one profile per chunk-local speaker: the
// frame-count-weighted mean of its span embeddings plus the feature
// centroid of the words attributed to it.
func (d *Diarizer) buildProfiles(numClusters int, labels []int, spans []Region, embeddings []speaker.Embedding, segments []Segment, words []transcript.Word) []speaker.Profile {
	sums := make([][]float64, numClusters)
	counts := make([]int, numClusters)
	for i, emb := range embeddings {
		label := labels[i]
		w := float64(spans[i].Len())
		if sums[label] == nil {
			sums[label] = make([]float64, speaker.EmbeddingDim)
		}
		for j, v := range emb.Values() {
			sums[label][j] += w * v
		}
		counts[label] += spans[i].Len()
	}

	features := make([][]speaker.FeatureVector, numClusters)
	for _, w := range words {
		if w.Features == nil {
			continue
		}
		label := speakerFor(w, segments)
		if label < 0 || label >= numClusters {
			continue
		}
		features[label] = append(features[label], featureVector(*w.Features))
	}

	profiles := make([]speaker.Profile, numClusters)
	for label := 0; label < numClusters; label++ {
		var emb speaker.Embedding
		if sums[label] != nil {
			emb = speaker.NewEmbedding(sums[label])
		}
		profiles[label] = speaker.NewProfile(label, speaker.Centroid(features[label]), emb, counts[label])
	}
	return profiles
}

// featureVector lifts per-word acoustic measurements into the profile
// comparison space.
func featureVector(f transcript.AcousticFeatures) speaker.FeatureVector {
	return speaker.FeatureVector{
		MeanPitch:            f.Pitch,
		MeanEnergy:           f.Energy,
		MeanSpectralCentroid: f.SpectralCentroid,
		MeanJitter:           f.Jitter,
		MeanShimmer:          f.Shimmer,
	}
}

func (d *Diarizer) emptyResult(words []transcript.Word) *Result {
	if len(words) == 0 {
		return &Result{Segments: []DiarizedSegment{}, SpeakerCount: 0}
	}
	// No analyzable audio: attribute the whole transcript to speaker 0.
	texts := make([]string, len(words))
	var features []speaker.FeatureVector
	for i, w := range words {
		texts[i] = w.Text
		if w.Features != nil {
			features = append(features, featureVector(*w.Features))
		}
	}
	return &Result{
		Segments: []DiarizedSegment{{
			Speaker: 0,
			Text:    strings.Join(texts, " "),
			StartMs: words[0].StartMs,
			EndMs:   words[len(words)-1].EndMs(),
		}},
		SpeakerCount: 1,
		Profiles: []speaker.Profile{
			speaker.NewProfile(0, speaker.Centroid(features), speaker.Embedding{}, 0),
		},
	}
}

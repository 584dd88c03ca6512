package config

import (
	"github.com/vocalapp/vocal/pkg/diar"
	"github.com/vocalapp/vocal/pkg/diar/align"
	"github.com/vocalapp/vocal/pkg/identity"
)

// Tuning is the YAML schema for pipeline threshold overrides. Zero values
// fall back to each stage's defaults, so a tuning file only needs the keys
// it changes.
type Tuning struct {
	Diarizer DiarizerTuning `yaml:"diarizer"`
	Align    AlignTuning    `yaml:"align"`
	Matcher  MatcherTuning  `yaml:"matcher"`
}

// DiarizerTuning covers the per-chunk pipeline stages.
type DiarizerTuning struct {
	VAD struct {
		NoisePercentile   float64 `yaml:"noisePercentile"`
		ThresholdPosition float64 `yaml:"thresholdPosition"`
		KernelSize        int     `yaml:"kernelSize"`
	} `yaml:"vad"`
	BIC struct {
		MinWindow     int     `yaml:"minWindow"`
		CandidateStep int     `yaml:"candidateStep"`
		PenaltyLambda float64 `yaml:"penaltyLambda"`
	} `yaml:"bic"`
	AHC struct {
		StopDistance float64 `yaml:"stopDistance"`
		MaxClusters  int     `yaml:"maxClusters"`
	} `yaml:"ahc"`
	Smoother struct {
		MinDurationMs float64 `yaml:"minDurationMs"`
		CollarMs      float64 `yaml:"collarMs"`
		MaxIsolatedMs float64 `yaml:"maxIsolatedMs"`
	} `yaml:"smoother"`
}

// AlignTuning covers cross-chunk speaker alignment.
type AlignTuning struct {
	EmbeddingThreshold float64 `yaml:"embeddingThreshold"`
	FeatureThreshold   float64 `yaml:"featureThreshold"`
}

// MatcherTuning covers identity matching and adaptation.
type MatcherTuning struct {
	DistanceCutoff  float64 `yaml:"distanceCutoff"`
	AdaptConfidence float64 `yaml:"adaptConfidence"`
	AdaptStep       float64 `yaml:"adaptStep"`
}

// DefaultTuning returns every stage's defaults, spelled out so SaveTuning
// writes a complete file the user can edit.
func DefaultTuning() Tuning {
	var t Tuning
	dc := diar.DefaultDiarizerConfig()
	t.Diarizer.VAD.NoisePercentile = dc.VAD.NoisePercentile
	t.Diarizer.VAD.ThresholdPosition = dc.VAD.ThresholdPosition
	t.Diarizer.VAD.KernelSize = dc.VAD.KernelSize
	t.Diarizer.BIC.MinWindow = dc.BIC.MinWindow
	t.Diarizer.BIC.CandidateStep = dc.BIC.CandidateStep
	t.Diarizer.BIC.PenaltyLambda = dc.BIC.PenaltyLambda
	t.Diarizer.AHC.StopDistance = dc.AHC.StopDistance
	t.Diarizer.AHC.MaxClusters = dc.AHC.MaxClusters
	t.Diarizer.Smoother.MinDurationMs = dc.Smoother.MinDurationMs
	t.Diarizer.Smoother.CollarMs = dc.Smoother.CollarMs
	t.Diarizer.Smoother.MaxIsolatedMs = dc.Smoother.MaxIsolatedMs

	ac := align.DefaultConfig()
	t.Align.EmbeddingThreshold = ac.EmbeddingThreshold
	t.Align.FeatureThreshold = ac.FeatureThreshold

	mc := identity.DefaultMatcherConfig()
	t.Matcher.DistanceCutoff = mc.DistanceCutoff
	t.Matcher.AdaptConfidence = mc.AdaptConfidence
	t.Matcher.AdaptStep = mc.AdaptStep
	return t
}

// DiarizerConfig materializes the tuning into stage configs; zero fields
// take stage defaults via the constructors.
func (t Tuning) DiarizerConfig() diar.DiarizerConfig {
	cfg := diar.DefaultDiarizerConfig()
	if v := t.Diarizer.VAD; v.NoisePercentile > 0 {
		cfg.VAD.NoisePercentile = v.NoisePercentile
	}
	if v := t.Diarizer.VAD; v.ThresholdPosition > 0 {
		cfg.VAD.ThresholdPosition = v.ThresholdPosition
	}
	if v := t.Diarizer.VAD; v.KernelSize > 0 {
		cfg.VAD.KernelSize = v.KernelSize
	}
	if b := t.Diarizer.BIC; b.MinWindow > 0 {
		cfg.BIC.MinWindow = b.MinWindow
	}
	if b := t.Diarizer.BIC; b.CandidateStep > 0 {
		cfg.BIC.CandidateStep = b.CandidateStep
	}
	if b := t.Diarizer.BIC; b.PenaltyLambda > 0 {
		cfg.BIC.PenaltyLambda = b.PenaltyLambda
	}
	if a := t.Diarizer.AHC; a.StopDistance > 0 {
		cfg.AHC.StopDistance = a.StopDistance
	}
	if a := t.Diarizer.AHC; a.MaxClusters > 0 {
		cfg.AHC.MaxClusters = a.MaxClusters
	}
	if s := t.Diarizer.Smoother; s.MinDurationMs > 0 {
		cfg.Smoother.MinDurationMs = s.MinDurationMs
	}
	if s := t.Diarizer.Smoother; s.CollarMs > 0 {
		cfg.Smoother.CollarMs = s.CollarMs
	}
	if s := t.Diarizer.Smoother; s.MaxIsolatedMs > 0 {
		cfg.Smoother.MaxIsolatedMs = s.MaxIsolatedMs
	}
	return cfg
}

// AlignConfig materializes the alignment thresholds.
func (t Tuning) AlignConfig() align.Config {
	cfg := align.DefaultConfig()
	if t.Align.EmbeddingThreshold > 0 {
		cfg.EmbeddingThreshold = t.Align.EmbeddingThreshold
	}
	if t.Align.FeatureThreshold > 0 {
		cfg.FeatureThreshold = t.Align.FeatureThreshold
	}
	return cfg
}

// MatcherConfig materializes the identity thresholds.
func (t Tuning) MatcherConfig() identity.MatcherConfig {
	cfg := identity.DefaultMatcherConfig()
	if t.Matcher.DistanceCutoff > 0 {
		cfg.DistanceCutoff = t.Matcher.DistanceCutoff
	}
	if t.Matcher.AdaptConfidence > 0 {
		cfg.AdaptConfidence = t.Matcher.AdaptConfidence
	}
	if t.Matcher.AdaptStep > 0 {
		cfg.AdaptStep = t.Matcher.AdaptStep
	}
	return cfg
}

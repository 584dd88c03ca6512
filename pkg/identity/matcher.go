package identity

import (
	"github.com/vocalapp/vocal/pkg/speaker"
)

// MatcherConfig holds the acceptance and adaptation thresholds.
type MatcherConfig struct {
	// DistanceCutoff is the largest cosine distance accepted as the
	// enrolled voice. Default: 0.40.
	DistanceCutoff float64

	// AdaptConfidence is the minimum match confidence before the
	// adaptation policy fires. Default: 0.75.
	AdaptConfidence float64

	// AdaptStep is how far the reference moves toward an accepted sample.
	// Default: 0.1.
	AdaptStep float64
}

// DefaultMatcherConfig returns the tuned defaults.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		DistanceCutoff:  0.40,
		AdaptConfidence: 0.75,
		AdaptStep:       0.1,
	}
}

// Matcher compares speaker profiles against one enrollment. A nil or
// inactive enrollment is not an error: every profile simply comes back
// IdentityUnknown with ReasonNoEnrollment.
type Matcher struct {
	cfg        MatcherConfig
	enrollment *EnrollmentProfile
}

// NewMatcher creates a Matcher for the given enrollment, which may be nil.
func NewMatcher(cfg MatcherConfig, enrollment *EnrollmentProfile) *Matcher {
	if cfg.DistanceCutoff <= 0 {
		cfg.DistanceCutoff = 0.40
	}
	if cfg.AdaptConfidence <= 0 {
		cfg.AdaptConfidence = 0.75
	}
	if cfg.AdaptStep <= 0 {
		cfg.AdaptStep = 0.1
	}
	return &Matcher{cfg: cfg, enrollment: enrollment}
}

// Match compares one speaker profile against the enrollment.
func (m *Matcher) Match(p speaker.Profile) MatchResult {
	if m.enrollment == nil || !m.enrollment.Active {
		return MatchResult{Identity: IdentityUnknown, DecisionReason: ReasonNoEnrollment}
	}
	ref := m.enrollment.Embedding()
	if ref.IsZero() || p.Embedding.IsZero() {
		return MatchResult{Identity: IdentityUnknown, DecisionReason: ReasonNoEmbedding}
	}

	d := ref.CosineDistance(p.Embedding)
	if d > m.cfg.DistanceCutoff {
		return MatchResult{
			Identity:       IdentityUnknown,
			Distance:       d,
			DecisionReason: ReasonDistanceTooFar,
		}
	}
	return MatchResult{
		Identity:       IdentityMe,
		Distance:       d,
		Confidence:     1 - d/m.cfg.DistanceCutoff,
		DecisionReason: ReasonMatched,
	}
}

// MatchAll compares every profile in the global speaker list.
func (m *Matcher) MatchAll(profiles []speaker.Profile) []MatchResult {
	out := make([]MatchResult, len(profiles))
	for i, p := range profiles {
		out[i] = m.Match(p)
	}
	return out
}

// ShouldAdaptProfile reports whether a match justifies adapting the stored
// enrollment. Adaptation never fires on every match, only when the match is
// both accepted and comfortably inside the threshold.
func (m *Matcher) ShouldAdaptProfile(r MatchResult) bool {
	return r.Identity == IdentityMe && r.Confidence >= m.cfg.AdaptConfidence
}

// AdaptWith returns the next enrollment version moved toward the sample, or
// nil when the match does not justify adaptation.
func (m *Matcher) AdaptWith(r MatchResult, sample speaker.Embedding) *EnrollmentProfile {
	if m.enrollment == nil || !m.ShouldAdaptProfile(r) || sample.IsZero() {
		return nil
	}
	return m.enrollment.Adapt(sample, m.cfg.AdaptStep)
}

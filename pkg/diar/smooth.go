package diar

// TurnSmootherConfig configures speaker-turn cleanup.
type TurnSmootherConfig struct {
	// MinDurationMs absorbs segments shorter than this into a neighbor
	// instead of keeping them as standalone turns. Default: 250.
	MinDurationMs float64

	// CollarMs is the largest gap across which same-speaker neighbors are
	// merged. Default: 300.
	CollarMs float64

	// MaxIsolatedMs bounds the duration of an isolated turn that may be
	// reassigned to the surrounding speaker. Default: 400.
	MaxIsolatedMs float64
}

// DefaultTurnSmootherConfig returns the tuned defaults.
func DefaultTurnSmootherConfig() TurnSmootherConfig {
	return TurnSmootherConfig{
		MinDurationMs: 250,
		CollarMs:      300,
		MaxIsolatedMs: 400,
	}
}

// TurnSmoother cleans up a sequence of speaker-labeled segments (ascending,
// non-overlapping) in ordered passes: minimum-duration absorption,
// same-speaker collar merging, isolated-turn removal, and a second collar
// merge to fold turns the removal relabeled.
type TurnSmoother struct {
	cfg TurnSmootherConfig
}

// NewTurnSmoother creates a TurnSmoother with the given config.
func NewTurnSmoother(cfg TurnSmootherConfig) *TurnSmoother {
	if cfg.MinDurationMs <= 0 {
		cfg.MinDurationMs = 250
	}
	if cfg.CollarMs <= 0 {
		cfg.CollarMs = 300
	}
	if cfg.MaxIsolatedMs <= 0 {
		cfg.MaxIsolatedMs = 400
	}
	return &TurnSmoother{cfg: cfg}
}

// Smooth applies the cleanup passes and returns a new segment slice.
// Empty input yields an empty result; a single segment passes unchanged.
func (s *TurnSmoother) Smooth(segments []Segment) []Segment {
	// The passes below rewrite entries in place; work on a private copy so
	// the caller's slice is never touched.
	segs := append([]Segment(nil), segments...)
	if len(segs) <= 1 {
		return segs
	}

	out := s.absorbShort(segs)
	out = s.collarMerge(out)
	out = s.removeIsolated(out)
	// Relabeling can leave same-speaker neighbors; fold them with the same
	// collar rule.
	out = s.collarMerge(out)
	return out
}

// absorbShort folds segments shorter than MinDurationMs into the closer
// adjacent segment. Forward absorption writes through the slice, which must
// be the Smooth-owned copy.
func (s *TurnSmoother) absorbShort(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for i, seg := range segments {
		if seg.DurationMs() >= s.cfg.MinDurationMs {
			out = append(out, seg)
			continue
		}

		// Choose the nearer neighbor: the previous kept segment or the next
		// input segment.
		prevGap, nextGap := -1.0, -1.0
		if len(out) > 0 {
			prevGap = seg.StartMs - out[len(out)-1].EndMs
		}
		if i+1 < len(segments) {
			nextGap = segments[i+1].StartMs - seg.EndMs
		}

		switch {
		case prevGap >= 0 && (nextGap < 0 || prevGap <= nextGap):
			out[len(out)-1].EndMs = seg.EndMs
		case nextGap >= 0:
			// Extend the following segment backward by adjusting this one
			// into it: keep the span, take the next speaker when it arrives.
			next := segments[i+1]
			next.StartMs = seg.StartMs
			segments[i+1] = next
		default:
			// No neighbors at all; keep the lone short segment.
			out = append(out, seg)
		}
	}
	return out
}

// collarMerge joins adjacent same-speaker segments separated by a gap of at
// most CollarMs. Different speakers are never merged regardless of gap.
func (s *TurnSmoother) collarMerge(segments []Segment) []Segment {
	if len(segments) == 0 {
		return segments
	}
	out := []Segment{segments[0]}
	for _, seg := range segments[1:] {
		last := &out[len(out)-1]
		if seg.Speaker == last.Speaker && seg.StartMs-last.EndMs <= s.cfg.CollarMs {
			if seg.EndMs > last.EndMs {
				last.EndMs = seg.EndMs
			}
			continue
		}
		out = append(out, seg)
	}
	return out
}

// removeIsolated reassigns a short turn whose two neighbors share a label
// different from its own; neighbors with differing labels preserve it.
func (s *TurnSmoother) removeIsolated(segments []Segment) []Segment {
	if len(segments) < 3 {
		return segments
	}
	out := append([]Segment(nil), segments...)
	for i := 1; i < len(out)-1; i++ {
		seg := out[i]
		if seg.DurationMs() > s.cfg.MaxIsolatedMs {
			continue
		}
		prev, next := out[i-1], out[i+1]
		if prev.Speaker == next.Speaker && prev.Speaker != seg.Speaker {
			out[i].Speaker = prev.Speaker
		}
	}
	return out
}


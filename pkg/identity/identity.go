// Package identity matches diarized speakers against a persisted voice
// enrollment.
//
// An EnrollmentProfile is the stored "self" reference: an embedding plus a
// feature centroid captured during enrollment. The Matcher compares global
// speaker profiles from a session against the enrollment by cosine distance
// and labels each one IdentityMe or IdentityUnknown. A separate adaptation
// policy decides when a high-confidence match may nudge the stored reference
// toward the new sample, producing a new profile version.
//
// Profiles are serialized with msgpack and persisted through a kv.Store;
// see Store.
package identity

// Identity is the outcome of matching one speaker against the enrollment.
type Identity string

const (
	// IdentityMe marks a speaker matched to the enrolled voice.
	IdentityMe Identity = "me"

	// IdentityUnknown marks a speaker that did not match.
	IdentityUnknown Identity = "unknown"
)

// Decision reasons reported in MatchResult.
const (
	ReasonMatched        = "matched"
	ReasonDistanceTooFar = "distance_too_far"
	ReasonNoEnrollment   = "no_enrollment"
	ReasonNoEmbedding    = "no_embedding"
)

// MatchResult is the verdict for one speaker profile.
type MatchResult struct {
	// Identity is the match outcome.
	Identity Identity `json:"identity"`

	// Distance is the cosine distance to the enrollment reference; zero
	// when no comparison was possible.
	Distance float64 `json:"distance"`

	// Confidence is in [0, 1], derived from how far inside the acceptance
	// threshold the distance fell. Zero for IdentityUnknown.
	Confidence float64 `json:"confidence"`

	// DecisionReason explains the outcome (see the Reason constants).
	DecisionReason string `json:"decisionReason"`
}

// internal/models/result.go
package models

import "time"

// MatchBreakdown holds the per-dimension similarity scores of one match.
// A nil entry means the dimension had no overlapping sub-traits and was
// excluded from the overall average, not zeroed.
type MatchBreakdown struct {
	Interests   *float64 `json:"interests"`
	Skills      *float64 `json:"skills"`
	Personality *float64 `json:"personality"`
	Values      *float64 `json:"values"`
}

// Dimension returns the breakdown entry for the named dimension.
func (b MatchBreakdown) Dimension(d Dimension) *float64 {
	switch d {
	case DimensionInterests:
		return b.Interests
	case DimensionSkills:
		return b.Skills
	case DimensionPersonality:
		return b.Personality
	case DimensionValues:
		return b.Values
	}
	return nil
}

// MatchResult is one ranked profession match. Derived, recomputed per
// request; only the persisted result bundle is a fact.
type MatchResult struct {
	ProfessionID string         `json:"professionId"`
	Score        int            `json:"score"`
	Breakdown    MatchBreakdown `json:"breakdown"`
	Rank         int            `json:"rank"`
}

// ResultBundle is the persisted outcome of one submission, retrievable by
// result id. Retrieval is idempotent: the same id always returns the same
// bundle.
type ResultBundle struct {
	ResultID         string           `json:"resultId"`
	AssessmentID     string           `json:"assessmentId"`
	UserID           string           `json:"userId"`
	RawScores        TraitScores      `json:"rawScores"`
	NormalizedScores TraitScores      `json:"normalizedScores"`
	RiasecCodes      []TraitCode      `json:"riasecCodes"`
	Profile          ArchetypeProfile `json:"profile"`
	Matches          []MatchResult    `json:"matches"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// internal/workers/assessment/persist-result/models.go
package persistresult

import "careercompass-workers/internal/models"

type Input struct {
	ResultID         string                  `json:"resultId"`
	AssessmentID     string                  `json:"assessmentId"`
	UserID           string                  `json:"userId"`
	RawScores        models.TraitScores      `json:"rawScores"`
	NormalizedScores models.TraitScores      `json:"normalizedScores"`
	RiasecCodes      []models.TraitCode      `json:"riasecCodes"`
	Profile          models.ArchetypeProfile `json:"profile"`
	Matches          []models.MatchResult    `json:"matches"`
}

type Output struct {
	ResultID string `json:"resultId"`
	// Persisted is false when the result id was already present and the
	// write was skipped.
	Persisted bool `json:"persisted"`
}

// internal/workers/assessment/match-professions/models.go
package matchprofessions

import "careercompass-workers/internal/models"

type Input struct {
	AssessmentID string                  `json:"assessmentId"`
	UserID       string                  `json:"userId"`
	Profile      models.ArchetypeProfile `json:"profile"`
	// TopN overrides the configured result size when positive.
	TopN int `json:"topN,omitempty"`
}

type Output struct {
	Matches []models.MatchResult `json:"matches"`
	// How many catalog professions were scored before truncation.
	CandidateCount int `json:"candidateCount"`
}

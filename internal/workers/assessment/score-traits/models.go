// internal/workers/assessment/score-traits/models.go
package scoretraits

import "careercompass-workers/internal/models"

type Input struct {
	AssessmentID string            `json:"assessmentId"`
	UserID       string            `json:"userId"`
	Questions    []models.Question `json:"questions"`
	Answers      models.AnswerSet  `json:"answers"`
}

type Output struct {
	RawScores        models.TraitScores `json:"rawScores"`
	NormalizedScores models.TraitScores `json:"normalizedScores"`
	// All six letters ranked by normalized score, canonical order on ties.
	RiasecCodes []models.TraitCode `json:"riasecCodes"`
}

// internal/workers/assessment/validate-submission/models.go
package validatesubmission

import "careercompass-workers/internal/models"

type Input struct {
	AssessmentID string            `json:"assessmentId"`
	UserID       string            `json:"userId"`
	Questions    []models.Question `json:"questions"`
	Answers      models.AnswerSet  `json:"answers"`
}

type Output struct {
	Valid         bool `json:"valid"`
	QuestionCount int  `json:"questionCount"`
	ScoredCount   int  `json:"scoredCount"`
	AnswerCount   int  `json:"answerCount"`
}

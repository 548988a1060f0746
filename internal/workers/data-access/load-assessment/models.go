// internal/workers/data-access/load-assessment/models.go
package loadassessment

import "careercompass-workers/internal/models"

type Input struct {
	AssessmentID string `json:"assessmentId"`
	UserID       string `json:"userId"`
	ResultID     string `json:"resultId"`
	Locale       string `json:"locale,omitempty"`
}

type Output struct {
	Assessment *models.Assessment `json:"assessment"`
	Questions  []models.Question  `json:"questions"`
	// Scored question count, used downstream for validation reporting.
	ScoredCount int `json:"scoredCount"`
}

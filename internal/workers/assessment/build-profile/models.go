// internal/workers/assessment/build-profile/models.go
package buildprofile

import "careercompass-workers/internal/models"

type Input struct {
	AssessmentID     string             `json:"assessmentId"`
	UserID           string             `json:"userId"`
	NormalizedScores models.TraitScores `json:"normalizedScores"`
}

type Output struct {
	Profile models.ArchetypeProfile `json:"profile"`
	// Banded display groups, one per dimension.
	Bands map[models.Dimension]models.BandedDimension `json:"bands"`
	// Concatenated two-letter archetype code, consumed by notifications.
	RiasecCode string `json:"riasecCode"`
}

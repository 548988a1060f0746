// internal/workers/assessment/build-profile/handler_test.go
package buildprofile

import (
	"context"
	"encoding/json"
	"testing"

	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(LoadConfig(), logger.NewNoOpLogger())
}

func TestExecute_BuildsProfileFromTopCodes(t *testing.T) {
	h := newTestHandler()

	output, err := h.Execute(context.Background(), &Input{
		AssessmentID: "career-2026",
		UserID:       "user-1",
		NormalizedScores: models.TraitScores{
			models.TraitRealistic:     90,
			models.TraitInvestigative: 70,
			models.TraitArtistic:      20,
			models.TraitSocial:        10,
			models.TraitEnterprising:  5,
			models.TraitConventional:  5,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.TraitCode{models.TraitRealistic, models.TraitInvestigative}, output.Profile.RiasecCodes)

	// The concatenated code travels as its own variable so downstream
	// notifications can render it without unpacking the profile.
	assert.Equal(t, "RI", output.RiasecCode)
	wire, err := json.Marshal(output)
	require.NoError(t, err)
	assert.Contains(t, string(wire), `"riasecCode":"RI"`)

	// R interests carry mechanical at full table weight: 90 * 1.0.
	assert.Equal(t, 90.0, output.Profile.Vectors.Interests["mechanical"])

	// Every scored sub-trait lands in exactly one band group.
	total := 0
	for _, dim := range models.DimensionOrder {
		banded := output.Bands[dim]
		total += len(banded.High) + len(banded.Medium) + len(banded.Low)
		for _, bt := range banded.High {
			assert.GreaterOrEqual(t, bt.Score, 70.0)
		}
		for _, bt := range banded.Medium {
			assert.GreaterOrEqual(t, bt.Score, 40.0)
			assert.Less(t, bt.Score, 70.0)
		}
		for _, bt := range banded.Low {
			assert.Less(t, bt.Score, 40.0)
		}
	}
	scored := 0
	for _, dim := range models.DimensionOrder {
		scored += len(output.Profile.Vectors.Dimension(dim))
	}
	assert.Equal(t, scored, total)
}

func TestExecute_BandOrderingWithinGroup(t *testing.T) {
	h := newTestHandler()

	output, err := h.Execute(context.Background(), &Input{
		NormalizedScores: models.TraitScores{
			models.TraitRealistic:     100,
			models.TraitInvestigative: 100,
		},
	})
	require.NoError(t, err)

	for _, dim := range models.DimensionOrder {
		high := output.Bands[dim].High
		for i := 1; i < len(high); i++ {
			if high[i-1].Score == high[i].Score {
				assert.Less(t, high[i-1].Name, high[i].Name)
			} else {
				assert.Greater(t, high[i-1].Score, high[i].Score)
			}
		}
	}
}

func TestExecute_MissingScoresRejected(t *testing.T) {
	h := newTestHandler()

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingScores)
}

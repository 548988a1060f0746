// internal/workers/assessment/validate-submission/handler_test.go
package validatesubmission

import (
	"context"
	"testing"

	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func testQuestions() []models.Question {
	return []models.Question{
		{
			ID:        "q1",
			Order:     1,
			Type:      models.QuestionLikert,
			TraitCode: models.TraitRealistic,
			Options: []models.Option{
				{Key: "1", Weight: fptr(0)},
				{Key: "5", Weight: fptr(4)},
			},
		},
		{
			ID:        "q2",
			Order:     2,
			Type:      models.QuestionMultipleChoice,
			TraitCode: models.TraitArtistic,
			Options: []models.Option{
				{Key: "a", Weight: fptr(2)},
				{Key: "b", Weight: fptr(3)},
			},
		},
		{
			// Survey question, no trait code: answering is optional.
			ID:    "q3",
			Order: 3,
			Type:  models.QuestionSingleChoice,
			Options: []models.Option{
				{Key: "yes"},
				{Key: "no"},
			},
		},
	}
}

func newTestHandler() *Handler {
	return NewHandler(LoadConfig(), logger.NewNoOpLogger())
}

func TestExecute_ValidSubmission(t *testing.T) {
	h := newTestHandler()

	output, err := h.Execute(context.Background(), &Input{
		AssessmentID: "career-2026",
		UserID:       "user-1",
		Questions:    testQuestions(),
		Answers: models.AnswerSet{
			"q1": {"5": 4},
			"q2": {"a": 2, "b": 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 3, output.QuestionCount)
	assert.Equal(t, 2, output.ScoredCount)
	assert.Equal(t, 2, output.AnswerCount)
}

func TestExecute_SurveyAnswerAccepted(t *testing.T) {
	h := newTestHandler()

	output, err := h.Execute(context.Background(), &Input{
		Questions: testQuestions(),
		Answers: models.AnswerSet{
			"q1": {"5": 4},
			"q2": {"a": 2},
			"q3": {"yes": 0},
		},
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 3, output.AnswerCount)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		answers  models.AnswerSet
		wantErr  error
		wantCode string
	}{
		{
			name:     "missing scored answer",
			answers:  models.AnswerSet{"q1": {"5": 4}},
			wantErr:  ErrSubmissionIncomplete,
			wantCode: "SUBMISSION_INCOMPLETE",
		},
		{
			name:     "unknown question id",
			answers:  models.AnswerSet{"q1": {"5": 4}, "q2": {"a": 2}, "q99": {"x": 1}},
			wantErr:  ErrUnknownQuestion,
			wantCode: "UNKNOWN_QUESTION",
		},
		{
			name:     "undeclared option key",
			answers:  models.AnswerSet{"q1": {"7": 6}, "q2": {"a": 2}},
			wantErr:  ErrUnknownOptionKey,
			wantCode: "UNKNOWN_OPTION_KEY",
		},
		{
			name:     "empty answers document",
			answers:  models.AnswerSet{},
			wantErr:  ErrSubmissionMalformed,
			wantCode: "SUBMISSION_MALFORMED",
		},
		{
			name:     "empty answer object",
			answers:  models.AnswerSet{"q1": {}, "q2": {"a": 2}},
			wantErr:  ErrSubmissionMalformed,
			wantCode: "SUBMISSION_MALFORMED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			_, err := h.Execute(context.Background(), &Input{
				Questions: testQuestions(),
				Answers:   tt.answers,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, h.mapErrorToCode(err))
		})
	}
}

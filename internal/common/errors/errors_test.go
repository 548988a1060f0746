// internal/common/errors/errors_test.go
package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCode_BusinessCodesAreNotRetryable(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeParseError,
		ErrCodeAssessmentNotFound,
		ErrCodeAssessmentInactive,
		ErrCodeSubmissionMalformed,
		ErrCodeSubmissionIncomplete,
		ErrCodeInvalidAnswer,
		ErrCodeUnknownQuestion,
		ErrCodeUnknownOptionKey,
		ErrCodeMissingScores,
		ErrCodeMissingResultID,
		ErrCodeEmptyCatalog,
		ErrCodeIndexNotFound,
	} {
		stdErr := ForCode(code, "details")
		assert.Equal(t, code, stdErr.Code)
		assert.False(t, stdErr.Retryable, string(code))
		assert.Equal(t, "details", stdErr.Details)
	}
}

func TestForCode_TechnicalCodesAreRetryable(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeQueryExecutionFailed,
		ErrCodeQueryTimeout,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeSearchTimeout,
		ErrCodeNotificationSendFailed,
	} {
		stdErr := ForCode(code, "connection refused")
		assert.Equal(t, code, stdErr.Code)
		assert.True(t, stdErr.Retryable, string(code))
	}
}

func TestForCode_UnknownCodeKeepsCodeAndStaysNonRetryable(t *testing.T) {
	stdErr := ForCode("UNKNOWN_ERROR", "something unexpected")
	assert.Equal(t, ErrorCode("UNKNOWN_ERROR"), stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestConvertToBPMNError_RetryBudgetFollowsCode(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		retries int
	}{
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeDatabaseInsertFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeEmptyCatalog, 0},
		{ErrCodeSubmissionIncomplete, 0},
	}

	for _, tt := range tests {
		bpmnErr := ConvertToBPMNError(ForCode(tt.code, "details"))
		assert.Equal(t, string(tt.code), bpmnErr.Code)
		assert.Equal(t, tt.retries, bpmnErr.Retries, string(tt.code))
		assert.Equal(t, tt.retries > 0, bpmnErr.Retryable, string(tt.code))
	}
}

func TestConvertToBPMNError_CarriesOriginalCode(t *testing.T) {
	bpmnErr := ConvertToBPMNError(ForCode(ErrCodeSearchQueryFailed, "shard failure"))
	require.NotNil(t, bpmnErr.ErrorVariables)
	assert.Equal(t, "SEARCH_QUERY_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "SEARCH_QUERY_FAILED", vars["errorCode"])
	assert.Equal(t, true, vars["retryable"])
}

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business Rule / Assessment Errors
const (
	ErrCodeParseError           ErrorCode = "PARSE_ERROR"
	ErrCodeAssessmentNotFound   ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeAssessmentInactive   ErrorCode = "ASSESSMENT_INACTIVE"
	ErrCodeSubmissionMalformed  ErrorCode = "SUBMISSION_MALFORMED"
	ErrCodeSubmissionIncomplete ErrorCode = "SUBMISSION_INCOMPLETE"
	ErrCodeInvalidAnswer        ErrorCode = "INVALID_ANSWER"
	ErrCodeUnknownQuestion      ErrorCode = "UNKNOWN_QUESTION"
	ErrCodeUnknownOptionKey     ErrorCode = "UNKNOWN_OPTION_KEY"
	ErrCodeSectionIncomplete    ErrorCode = "SECTION_INCOMPLETE"
	ErrCodeSectionOutOfRange    ErrorCode = "SECTION_OUT_OF_RANGE"
	ErrCodeMissingScores        ErrorCode = "MISSING_SCORES"
	ErrCodeMissingResultID      ErrorCode = "MISSING_RESULT_ID"
	ErrCodeResultNotFound       ErrorCode = "RESULT_NOT_FOUND"
	ErrCodeEmptyCatalog         ErrorCode = "EMPTY_CATALOG"

	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout         ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeProgressStoreFailed ErrorCode = "PROGRESS_STORE_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewParseError creates a non-retryable error for a malformed job payload.
func NewParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Job variables could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentNotFoundError creates a non-retryable assessment lookup error.
func NewAssessmentNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentNotFound,
		Message:   "Assessment not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentInactiveError creates a non-retryable error for a disabled assessment.
func NewAssessmentInactiveError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentInactive,
		Message:   "Assessment is not active",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionMalformedError creates a non-retryable structural validation error.
func NewSubmissionMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionMalformed,
		Message:   "Answers document does not match the expected structure",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionIncompleteError creates a non-retryable submission validation error.
func NewSubmissionIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionIncomplete,
		Message:   "Submission is missing answers to scored questions",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAnswerError creates a non-retryable answer validation error.
func NewInvalidAnswerError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAnswer,
		Message:   "Answer references an option the question does not declare",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownQuestionError creates a non-retryable unknown question error.
func NewUnknownQuestionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownQuestion,
		Message:   "Answer references a question outside the assessment",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownOptionKeyError creates a non-retryable unknown option key error.
func NewUnknownOptionKeyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownOptionKey,
		Message:   "Answer references an option key the question does not declare",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingScoresError creates a non-retryable error for absent normalized scores.
func NewMissingScoresError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingScores,
		Message:   "Normalized scores are missing from the job variables",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingResultIDError creates a non-retryable error for an absent result id.
func NewMissingResultIDError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingResultID,
		Message:   "Result id is missing from the job variables",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyCatalogError creates a non-retryable error for an empty profession catalog.
func NewEmptyCatalogError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyCatalog,
		Message:   "Profession catalog has no entries to match against",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeElasticsearchConnectionFailed,
		Message:   "Elasticsearch connection error",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ForCode reconstructs the StandardError for an error code produced by a
// worker's error mapping. Details carry the reported error text. Codes
// outside the taxonomy come back non-retryable unless the retry table says
// otherwise.
func ForCode(code ErrorCode, details string) *StandardError {
	switch code {
	case ErrCodeParseError:
		return NewParseError(details)
	case ErrCodeAssessmentNotFound:
		return NewAssessmentNotFoundError(details)
	case ErrCodeAssessmentInactive:
		return NewAssessmentInactiveError(details)
	case ErrCodeSubmissionMalformed:
		return NewSubmissionMalformedError(details)
	case ErrCodeSubmissionIncomplete:
		return NewSubmissionIncompleteError(details)
	case ErrCodeInvalidAnswer:
		return NewInvalidAnswerError(details)
	case ErrCodeUnknownQuestion:
		return NewUnknownQuestionError(details)
	case ErrCodeUnknownOptionKey:
		return NewUnknownOptionKeyError(details)
	case ErrCodeMissingScores:
		return NewMissingScoresError(details)
	case ErrCodeMissingResultID:
		return NewMissingResultIDError(details)
	case ErrCodeEmptyCatalog:
		return NewEmptyCatalogError(details)
	case ErrCodeQueryExecutionFailed:
		return NewQueryExecutionFailedError(details)
	case ErrCodeQueryTimeout:
		return NewQueryTimeoutError(details)
	case ErrCodeDatabaseInsertFailed:
		return NewDatabaseInsertFailedError(details)
	case ErrCodeElasticsearchConnectionFailed:
		return NewElasticsearchConnectionFailedError(details)
	case ErrCodeSearchQueryFailed:
		return NewSearchQueryFailedError(details)
	case ErrCodeSearchTimeout:
		return NewSearchTimeoutError(details)
	case ErrCodeIndexNotFound:
		return NewIndexNotFoundError(details)
	case ErrCodeNotificationSendFailed:
		return NewNotificationSendFailedError(details)
	default:
		return &StandardError{
			Code:      code,
			Message:   "Unclassified worker error",
			Details:   details,
			Retryable: IsRetryableErrorCode(code),
			Timestamp: time.Now().UTC(),
		}
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:                    "PARSE_ERROR",
	ErrCodeAssessmentNotFound:            "ASSESSMENT_NOT_FOUND",
	ErrCodeAssessmentInactive:            "ASSESSMENT_INACTIVE",
	ErrCodeSubmissionMalformed:           "SUBMISSION_MALFORMED",
	ErrCodeSubmissionIncomplete:          "SUBMISSION_INCOMPLETE",
	ErrCodeInvalidAnswer:                 "INVALID_ANSWER",
	ErrCodeUnknownQuestion:               "UNKNOWN_QUESTION",
	ErrCodeUnknownOptionKey:              "UNKNOWN_OPTION_KEY",
	ErrCodeSectionIncomplete:             "SECTION_INCOMPLETE",
	ErrCodeSectionOutOfRange:             "SECTION_OUT_OF_RANGE",
	ErrCodeMissingScores:                 "MISSING_SCORES",
	ErrCodeMissingResultID:               "MISSING_RESULT_ID",
	ErrCodeResultNotFound:                "RESULT_NOT_FOUND",
	ErrCodeEmptyCatalog:                  "EMPTY_CATALOG",
	ErrCodeQueryExecutionFailed:          "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                  "QUERY_TIMEOUT",
	ErrCodeDatabaseInsertFailed:          "DATABASE_INSERT_FAILED",
	ErrCodeProgressStoreFailed:           "PROGRESS_STORE_FAILED",
	ErrCodeElasticsearchConnectionFailed: "ELASTICSEARCH_CONNECTION_FAILED",
	ErrCodeSearchQueryFailed:             "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                 "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for the error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeProgressStoreFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "SUBMISSION") || strings.Contains(codeStr, "SECTION"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "RESULT"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "PROGRESS"):
		return "PROGRESS"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "UNKNOWN"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// internal/riasec/errors.go
package riasec

import "fmt"

// InvalidAnswerError marks a data-integrity fault: an answer selected an
// option key the owning question never declared. Scoring aborts for the
// whole submission; a half-scored result is worse than no result.
type InvalidAnswerError struct {
	QuestionID string
	OptionKey  string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %s: unknown option key %q", e.QuestionID, e.OptionKey)
}

// IncompleteSubmissionError marks a submission missing an answer for a
// required question.
type IncompleteSubmissionError struct {
	QuestionID string
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("submission incomplete: question %s has no answer", e.QuestionID)
}

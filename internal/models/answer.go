// internal/models/answer.go
package models

// Answer maps each selected option key of one question to that option's
// resolved weight. Single- and multi-select questions use the same shape;
// an answer either exists with at least one selected key or does not exist.
type Answer map[string]float64

// AnswerSet is the ordered, resumable record of responses, keyed by
// question id.
type AnswerSet map[string]Answer

// Has reports whether the question has a non-empty answer.
func (a AnswerSet) Has(questionID string) bool {
	ans, ok := a[questionID]
	return ok && len(ans) > 0
}

// SelectedKeys returns the selected option keys for a question, or nil.
func (a AnswerSet) SelectedKeys(questionID string) []string {
	ans, ok := a[questionID]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(ans))
	for k := range ans {
		keys = append(keys, k)
	}
	return keys
}

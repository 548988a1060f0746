// internal/models/question.go
package models

// QuestionType enumerates the supported inventory question kinds.
type QuestionType string

const (
	QuestionLikert         QuestionType = "likert"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

// Option is one selectable answer option. Value is numeric-or-string content
// passed through to downstream consumers; Weight is the option's scoring
// contribution when the question carries a trait code.
type Option struct {
	Key    string        `json:"key"`
	Label  LocalizedText `json:"label"`
	Value  interface{}   `json:"value,omitempty"`
	Weight *float64      `json:"weight,omitempty"`
}

// Question is one published inventory question. Immutable once published.
// Params is a free-form bag (e.g. {"type":"survey"}) that scoring ignores
// but must round-trip unmodified.
type Question struct {
	ID        string                 `json:"id"`
	Order     int                    `json:"order"`
	Text      LocalizedText          `json:"text"`
	Type      QuestionType           `json:"type"`
	Options   []Option               `json:"options"`
	TraitCode TraitCode              `json:"traitCode,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

// Scored reports whether the question contributes to trait scoring.
func (q Question) Scored() bool {
	return q.TraitCode != ""
}

// OptionWeight resolves the weight of one of the question's declared option
// keys. The second return is false for unknown keys.
func (q Question) OptionWeight(key string) (float64, bool) {
	for _, opt := range q.Options {
		if opt.Key == key {
			if opt.Weight == nil {
				return 0, true
			}
			return *opt.Weight, true
		}
	}
	return 0, false
}

// MaxAttainableWeight is the largest score this question can contribute to
// its trait: the best single option for likert/single-choice, the sum of all
// positive option weights for multiple-choice.
func (q Question) MaxAttainableWeight() float64 {
	if !q.Scored() {
		return 0
	}
	if q.Type == QuestionMultipleChoice {
		var sum float64
		for _, opt := range q.Options {
			if opt.Weight != nil && *opt.Weight > 0 {
				sum += *opt.Weight
			}
		}
		return sum
	}
	var max float64
	for _, opt := range q.Options {
		if opt.Weight != nil && *opt.Weight > max {
			max = *opt.Weight
		}
	}
	return max
}

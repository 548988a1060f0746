// internal/session/session.go
package session

import (
	"fmt"
	"time"

	"careercompass-workers/internal/models"
)

// DefaultSectionSize paginates the question list six at a time.
const DefaultSectionSize = 6

// OutOfRangeError signals a section index beyond the question list.
type OutOfRangeError struct {
	SectionIndex int
	SectionCount int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("section index %d out of range (have %d sections)", e.SectionIndex, e.SectionCount)
}

// SectionIncompleteError refuses forward navigation while unanswered
// questions remain in the current section. The UI gates "Next" anyway; the
// transition itself still refuses.
type SectionIncompleteError struct {
	SectionIndex int
	Unanswered   []string
}

func (e *SectionIncompleteError) Error() string {
	return fmt.Sprintf("section %d incomplete: %d questions unanswered", e.SectionIndex, len(e.Unanswered))
}

// UnknownOptionError rejects an answer whose selected key is not declared by
// the question.
type UnknownOptionError struct {
	QuestionID string
	OptionKey  string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("question %s has no option %q", e.QuestionID, e.OptionKey)
}

// Section is one derived fixed-size slice of the question sequence. Never
// stored; index math is floor(questionIndex / sectionSize).
type Section struct {
	Index     int
	Questions []models.Question
	Total     int
}

// SectionCount returns how many sections the question list paginates into.
func SectionCount(questionCount, sectionSize int) int {
	if sectionSize <= 0 {
		sectionSize = DefaultSectionSize
	}
	if questionCount == 0 {
		return 0
	}
	return (questionCount + sectionSize - 1) / sectionSize
}

// CurrentSection slices the question list at the progress's section index.
// The final section may be short when the list size is not a multiple of the
// section size.
func CurrentSection(questions []models.Question, progress *models.TestProgress, sectionSize int) (*Section, error) {
	if sectionSize <= 0 {
		sectionSize = DefaultSectionSize
	}
	total := SectionCount(len(questions), sectionSize)
	idx := progress.CurrentSectionIndex
	if idx < 0 || idx >= total {
		return nil, &OutOfRangeError{SectionIndex: idx, SectionCount: total}
	}

	start := idx * sectionSize
	end := start + sectionSize
	if end > len(questions) {
		end = len(questions)
	}
	return &Section{Index: idx, Questions: questions[start:end], Total: total}, nil
}

// unansweredIn lists question ids in the section without an answer.
func unansweredIn(section *Section, answers models.AnswerSet) []string {
	var missing []string
	for _, q := range section.Questions {
		if !answers.Has(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// IsComplete reports whether every question in the current section is
// answered; the shorter final section completes over its own slice.
func IsComplete(questions []models.Question, progress *models.TestProgress, sectionSize int) (bool, error) {
	section, err := CurrentSection(questions, progress, sectionSize)
	if err != nil {
		return false, err
	}
	return len(unansweredIn(section, progress.Answers)) == 0, nil
}

// SetAnswer records the selected option keys of one question, resolving each
// key's weight against the question's declared options. At least one key is
// required; an unknown key rejects the whole answer so a partially valid
// answer never exists.
func SetAnswer(progress *models.TestProgress, question models.Question, selectedKeys []string) error {
	if len(selectedKeys) == 0 {
		return &UnknownOptionError{QuestionID: question.ID}
	}
	answer := make(models.Answer, len(selectedKeys))
	for _, key := range selectedKeys {
		weight, ok := question.OptionWeight(key)
		if !ok {
			return &UnknownOptionError{QuestionID: question.ID, OptionKey: key}
		}
		answer[key] = weight
	}

	if progress.Answers == nil {
		progress.Answers = make(models.AnswerSet)
	}
	progress.Answers[question.ID] = answer
	progress.Status = models.StatusInProgress
	progress.LastUpdated = time.Now().UTC()
	return nil
}

// Advance moves to the next section, only once the current one is complete.
// On refusal the progress is left untouched.
func Advance(questions []models.Question, progress *models.TestProgress, sectionSize int) error {
	section, err := CurrentSection(questions, progress, sectionSize)
	if err != nil {
		return err
	}
	if missing := unansweredIn(section, progress.Answers); len(missing) > 0 {
		return &SectionIncompleteError{SectionIndex: section.Index, Unanswered: missing}
	}
	if progress.CurrentSectionIndex+1 >= section.Total {
		return &OutOfRangeError{SectionIndex: progress.CurrentSectionIndex + 1, SectionCount: section.Total}
	}
	progress.CurrentSectionIndex++
	progress.Status = models.StatusInProgress
	progress.LastUpdated = time.Now().UTC()
	return nil
}

// Retreat moves back one section; always legal while the index is positive.
func Retreat(progress *models.TestProgress) error {
	if progress.CurrentSectionIndex == 0 {
		return &OutOfRangeError{SectionIndex: -1, SectionCount: 0}
	}
	progress.CurrentSectionIndex--
	progress.LastUpdated = time.Now().UTC()
	return nil
}

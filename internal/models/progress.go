// internal/models/progress.go
package models

import "time"

// TestStatus tracks the test-taking lifecycle. Submitted is terminal;
// abandonment is implicit via the progress retention TTL.
type TestStatus string

const (
	StatusNotStarted TestStatus = "not_started"
	StatusInProgress TestStatus = "in_progress"
	StatusSubmitted  TestStatus = "submitted"
)

// TestProgress is the durable per-(user, assessment) state: current section,
// accumulated answers and the last mutation time. Created on first
// interaction, overwritten on every answer or navigation, deleted once a
// submission is confirmed persisted.
type TestProgress struct {
	AssessmentID        string     `json:"assessmentId"`
	UserID              string     `json:"userId"`
	CurrentSectionIndex int        `json:"currentSectionIndex"`
	Answers             AnswerSet  `json:"answers"`
	Status              TestStatus `json:"status"`
	LastUpdated         time.Time  `json:"lastUpdated"`
}

// NewTestProgress returns the initial state for one (user, assessment) pair.
func NewTestProgress(assessmentID, userID string) *TestProgress {
	return &TestProgress{
		AssessmentID: assessmentID,
		UserID:       userID,
		Answers:      make(AnswerSet),
		Status:       StatusNotStarted,
	}
}

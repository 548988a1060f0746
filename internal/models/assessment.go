// internal/models/assessment.go
package models

// Assessment is a published RIASEC test definition. Questions are loaded
// separately and belong to exactly one assessment.
type Assessment struct {
	ID          string        `json:"id"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Active      bool          `json:"active"`
}

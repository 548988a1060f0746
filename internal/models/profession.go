// internal/models/profession.go
package models

// Profession is one catalog entry with its precomputed archetype reference
// profile. Static reference data; the platform never mutates it.
type Profession struct {
	ID          string           `json:"id"`
	Name        LocalizedText    `json:"name"`
	Description LocalizedText    `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Archetype   ArchetypeVectors `json:"archetype"`
}

// internal/models/trait.go
package models

// TraitCode is one of the six Holland RIASEC interest letters.
type TraitCode string

const (
	TraitRealistic     TraitCode = "R"
	TraitInvestigative TraitCode = "I"
	TraitArtistic      TraitCode = "A"
	TraitSocial        TraitCode = "S"
	TraitEnterprising  TraitCode = "E"
	TraitConventional  TraitCode = "C"
)

// CanonicalTraitOrder fixes the processing and tie-break order for all trait
// iteration. Scoring, ranking and code derivation depend on it being stable.
var CanonicalTraitOrder = []TraitCode{
	TraitRealistic,
	TraitInvestigative,
	TraitArtistic,
	TraitSocial,
	TraitEnterprising,
	TraitConventional,
}

// IsValidTraitCode reports whether code is one of the six RIASEC letters.
func IsValidTraitCode(code TraitCode) bool {
	for _, c := range CanonicalTraitOrder {
		if c == code {
			return true
		}
	}
	return false
}

// TraitScores is a six-entry trait -> non-negative score mapping. A zero
// value for a trait is represented as an explicit zero entry so the vector
// always carries all six letters.
type TraitScores map[TraitCode]float64

// NewTraitScores returns a vector with all six accumulators at zero.
func NewTraitScores() TraitScores {
	ts := make(TraitScores, len(CanonicalTraitOrder))
	for _, code := range CanonicalTraitOrder {
		ts[code] = 0
	}
	return ts
}

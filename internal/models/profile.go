// internal/models/profile.go
package models

// Dimension names one of the four archetype profile groups.
type Dimension string

const (
	DimensionInterests   Dimension = "interests"
	DimensionSkills      Dimension = "skills"
	DimensionPersonality Dimension = "personality"
	DimensionValues      Dimension = "values"
)

// DimensionOrder fixes iteration order over the four dimensions.
var DimensionOrder = []Dimension{
	DimensionInterests,
	DimensionSkills,
	DimensionPersonality,
	DimensionValues,
}

// ArchetypeVectors holds the four sub-trait score maps (each value in
// [0,100]). The same shape describes a user profile and a profession's
// static reference profile.
type ArchetypeVectors struct {
	Interests   map[string]float64 `json:"interests"`
	Skills      map[string]float64 `json:"skills"`
	Personality map[string]float64 `json:"personality"`
	Values      map[string]float64 `json:"values"`
}

// Dimension returns the sub-trait map for the named dimension.
func (v ArchetypeVectors) Dimension(d Dimension) map[string]float64 {
	switch d {
	case DimensionInterests:
		return v.Interests
	case DimensionSkills:
		return v.Skills
	case DimensionPersonality:
		return v.Personality
	case DimensionValues:
		return v.Values
	}
	return nil
}

// ArchetypeProfile is a user's expanded profile: the four dimension vectors
// plus the ordered top trait letters (primary first).
type ArchetypeProfile struct {
	RiasecCodes []TraitCode      `json:"riasecCodes"`
	Vectors     ArchetypeVectors `json:"vectors"`
}

// Band is the three-level presentation grouping of a sub-trait score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandedTrait is one sub-trait prepared for display.
type BandedTrait struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Band  Band    `json:"band"`
}

// BandedDimension groups a dimension's sub-traits by band, each band sorted
// by score descending.
type BandedDimension struct {
	High   []BandedTrait `json:"high"`
	Medium []BandedTrait `json:"medium"`
	Low    []BandedTrait `json:"low"`
}

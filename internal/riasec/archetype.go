// internal/riasec/archetype.go
package riasec

import (
	"math"
	"sort"

	"careercompass-workers/internal/models"
)

// Band thresholds. Exposed as named constants so boundary behavior at
// exactly 70 and 40 is assertable.
const (
	BandHighMin   = 70.0
	BandMediumMin = 40.0
)

// TopCodeCount is how many leading trait letters (primary, secondary) feed
// the archetype expansion.
const TopCodeCount = 2

// BandFor classifies a sub-trait score: high >= 70, medium >= 40, low below.
func BandFor(score float64) models.Band {
	switch {
	case score >= BandHighMin:
		return models.BandHigh
	case score >= BandMediumMin:
		return models.BandMedium
	default:
		return models.BandLow
	}
}

// BuildProfile expands normalized trait percentages into the four-dimension
// archetype profile. For each of the top trait letters, every reference
// sub-trait is scaled by the letter's normalized score; when both letters
// feed the same sub-trait the higher contribution wins.
func BuildProfile(normalized models.TraitScores) models.ArchetypeProfile {
	codes := TopCodes(normalized, TopCodeCount)

	vectors := models.ArchetypeVectors{
		Interests:   make(map[string]float64),
		Skills:      make(map[string]float64),
		Personality: make(map[string]float64),
		Values:      make(map[string]float64),
	}

	for _, code := range codes {
		table, ok := ArchetypeTable(code)
		if !ok {
			continue
		}
		for _, dim := range models.DimensionOrder {
			target := vectors.Dimension(dim)
			for name, weight := range table.Dimension(dim) {
				score := math.Round(normalized[code] * weight)
				if score < 0 {
					score = 0
				}
				if score > 100 {
					score = 100
				}
				if score > target[name] {
					target[name] = score
				}
			}
		}
	}

	return models.ArchetypeProfile{
		RiasecCodes: codes,
		Vectors:     vectors,
	}
}

// GroupByBand partitions one dimension's sub-traits for display: by band,
// score descending within a band, name ascending on equal scores.
func GroupByBand(dimension map[string]float64) models.BandedDimension {
	traits := make([]models.BandedTrait, 0, len(dimension))
	for name, score := range dimension {
		traits = append(traits, models.BandedTrait{
			Name:  name,
			Score: score,
			Band:  BandFor(score),
		})
	}
	sort.Slice(traits, func(i, j int) bool {
		if traits[i].Score != traits[j].Score {
			return traits[i].Score > traits[j].Score
		}
		return traits[i].Name < traits[j].Name
	})

	var grouped models.BandedDimension
	for _, t := range traits {
		switch t.Band {
		case models.BandHigh:
			grouped.High = append(grouped.High, t)
		case models.BandMedium:
			grouped.Medium = append(grouped.Medium, t)
		default:
			grouped.Low = append(grouped.Low, t)
		}
	}
	return grouped
}

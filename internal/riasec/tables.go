// internal/riasec/tables.go
package riasec

import "careercompass-workers/internal/models"

// archetypeTables maps each RIASEC letter to its sub-trait weights per
// dimension. Weights are in [0,1] and come from the platform's psychometric
// reference data; the profile builder only selects and scales them, it never
// invents values.
var archetypeTables = map[models.TraitCode]models.ArchetypeVectors{
	models.TraitRealistic: {
		Interests: map[string]float64{
			"mechanical": 1.0,
			"outdoor":    0.8,
			"technical":  0.9,
		},
		Skills: map[string]float64{
			"mechanical":      1.0,
			"manual":          0.85,
			"troubleshooting": 0.75,
		},
		Personality: map[string]float64{
			"practical":  1.0,
			"persistent": 0.8,
			"reserved":   0.6,
		},
		Values: map[string]float64{
			"tangible_results": 1.0,
			"stability":        0.8,
			"independence":     0.7,
		},
	},
	models.TraitInvestigative: {
		Interests: map[string]float64{
			"science":  1.0,
			"research": 0.9,
			"analysis": 0.85,
		},
		Skills: map[string]float64{
			"analytical":      1.0,
			"mathematical":    0.85,
			"problem_solving": 0.9,
		},
		Personality: map[string]float64{
			"curious":     1.0,
			"independent": 0.8,
			"precise":     0.75,
		},
		Values: map[string]float64{
			"knowledge":    1.0,
			"achievement":  0.8,
			"independence": 0.75,
		},
	},
	models.TraitArtistic: {
		Interests: map[string]float64{
			"creative_arts": 1.0,
			"design":        0.9,
			"writing":       0.8,
		},
		Skills: map[string]float64{
			"creativity":    1.0,
			"expression":    0.85,
			"improvisation": 0.7,
		},
		Personality: map[string]float64{
			"imaginative": 1.0,
			"expressive":  0.9,
			"open":        0.8,
		},
		Values: map[string]float64{
			"self_expression": 1.0,
			"aesthetics":      0.9,
			"independence":    0.8,
		},
	},
	models.TraitSocial: {
		Interests: map[string]float64{
			"helping":    1.0,
			"teaching":   0.9,
			"counseling": 0.85,
		},
		Skills: map[string]float64{
			"communication": 1.0,
			"empathy":       0.9,
			"teamwork":      0.85,
		},
		Personality: map[string]float64{
			"friendly":    1.0,
			"cooperative": 0.9,
			"patient":     0.8,
		},
		Values: map[string]float64{
			"service":       1.0,
			"relationships": 0.9,
			"community":     0.8,
		},
	},
	models.TraitEnterprising: {
		Interests: map[string]float64{
			"business":   1.0,
			"leadership": 0.9,
			"sales":      0.8,
		},
		Skills: map[string]float64{
			"persuasion": 1.0,
			"leadership": 0.95,
			"planning":   0.8,
		},
		Personality: map[string]float64{
			"ambitious": 1.0,
			"energetic": 0.85,
			"sociable":  0.8,
		},
		Values: map[string]float64{
			"influence":   1.0,
			"achievement": 0.9,
			"status":      0.75,
		},
	},
	models.TraitConventional: {
		Interests: map[string]float64{
			"organization":    1.0,
			"data_management": 0.9,
			"finance":         0.8,
		},
		Skills: map[string]float64{
			"attention_to_detail": 1.0,
			"organization":        0.95,
			"record_keeping":      0.8,
		},
		Personality: map[string]float64{
			"orderly":       1.0,
			"conscientious": 0.9,
			"careful":       0.8,
		},
		Values: map[string]float64{
			"order":       1.0,
			"stability":   0.9,
			"reliability": 0.85,
		},
	},
}

// ArchetypeTable exposes the reference vectors for one trait letter.
func ArchetypeTable(code models.TraitCode) (models.ArchetypeVectors, bool) {
	v, ok := archetypeTables[code]
	return v, ok
}

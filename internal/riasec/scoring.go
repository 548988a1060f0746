// internal/riasec/scoring.go
package riasec

import (
	"math"
	"sort"

	"careercompass-workers/internal/models"
)

// Score reduces a complete answer set into the six-trait score vector.
//
// Traits are processed in the fixed canonical order R, I, A, S, E, C and,
// within a trait, contributing answers in question order with option keys
// sorted, so the result is bit-for-bit identical across runs. Questions
// without a trait code (survey/demographic) are skipped; they stay in the
// submitted payload untouched for downstream consumers.
//
// Every scored question must have an answer, and every selected key must be
// declared by its question; violations abort the whole pass.
func Score(questions []models.Question, answers models.AnswerSet) (models.TraitScores, error) {
	scores := models.NewTraitScores()

	for _, trait := range models.CanonicalTraitOrder {
		for _, q := range questions {
			if q.TraitCode != trait {
				continue
			}
			ans, ok := answers[q.ID]
			if !ok || len(ans) == 0 {
				return nil, &IncompleteSubmissionError{QuestionID: q.ID}
			}

			keys := make([]string, 0, len(ans))
			for key := range ans {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				weight, ok := q.OptionWeight(key)
				if !ok {
					return nil, &InvalidAnswerError{QuestionID: q.ID, OptionKey: key}
				}
				scores[trait] += weight
			}
		}
	}

	return scores, nil
}

// Normalize rescales raw trait sums to percentages of the maximum attainable
// score per trait. The divisor is the per-trait sum of each contributing
// question's best attainable weight (see Question.MaxAttainableWeight); the
// source logic left the divisor open, so this rule is a documented design
// choice rather than a discovered contract. A trait with zero attainable
// weight normalizes to zero.
func Normalize(questions []models.Question, raw models.TraitScores) models.TraitScores {
	maxima := make(models.TraitScores, len(models.CanonicalTraitOrder))
	for _, q := range questions {
		if q.Scored() {
			maxima[q.TraitCode] += q.MaxAttainableWeight()
		}
	}

	out := models.NewTraitScores()
	for _, trait := range models.CanonicalTraitOrder {
		if maxima[trait] <= 0 {
			continue
		}
		out[trait] = math.Round(100 * raw[trait] / maxima[trait])
	}
	return out
}

// RankedCodes returns all six trait letters ranked by score descending,
// ties broken by the canonical order so results are deterministic.
func RankedCodes(scores models.TraitScores) []models.TraitCode {
	codes := make([]models.TraitCode, len(models.CanonicalTraitOrder))
	copy(codes, models.CanonicalTraitOrder)
	sort.SliceStable(codes, func(i, j int) bool {
		return scores[codes[i]] > scores[codes[j]]
	})
	return codes
}

// TopCodes returns the n leading trait letters (primary, secondary, ...).
func TopCodes(scores models.TraitScores, n int) []models.TraitCode {
	ranked := RankedCodes(scores)
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

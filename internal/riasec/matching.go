// internal/riasec/matching.go
package riasec

import (
	"math"
	"sort"

	"careercompass-workers/internal/models"
)

// DimensionSimilarity scores one dimension of a user profile against a
// profession's reference vector: 100 - mean(|user_i - profession_i|) over
// the sub-traits present on both sides, clamped to [0,100]. Sub-traits
// present on only one side are ignored rather than treated as zero. Returns
// nil when the two vectors share no sub-traits.
func DimensionSimilarity(user, profession map[string]float64) *float64 {
	var sum float64
	var n int
	for name, us := range user {
		ps, ok := profession[name]
		if !ok {
			continue
		}
		sum += math.Abs(us - ps)
		n++
	}
	if n == 0 {
		return nil
	}
	score := 100 - sum/float64(n)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// Match scores one profession against the user profile. The overall score is
// the mean of the non-nil dimension scores rounded to the nearest integer;
// nil dimensions are excluded from the average.
func Match(profile models.ArchetypeProfile, profession models.Profession) models.MatchResult {
	breakdown := models.MatchBreakdown{
		Interests:   DimensionSimilarity(profile.Vectors.Interests, profession.Archetype.Interests),
		Skills:      DimensionSimilarity(profile.Vectors.Skills, profession.Archetype.Skills),
		Personality: DimensionSimilarity(profile.Vectors.Personality, profession.Archetype.Personality),
		Values:      DimensionSimilarity(profile.Vectors.Values, profession.Archetype.Values),
	}

	var sum float64
	var n int
	for _, dim := range models.DimensionOrder {
		if s := breakdown.Dimension(dim); s != nil {
			sum += *s
			n++
		}
	}

	var overall int
	if n > 0 {
		overall = int(math.Round(sum / float64(n)))
	}

	return models.MatchResult{
		ProfessionID: profession.ID,
		Score:        overall,
		Breakdown:    breakdown,
	}
}

// MatchProfessions ranks every profession against the user profile.
// Descending by overall score, ties broken by profession id so ordering is
// stable across runs. topN <= 0 returns the full list.
func MatchProfessions(profile models.ArchetypeProfile, professions []models.Profession, topN int) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(professions))
	for _, p := range professions {
		results = append(results, Match(profile, p))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProfessionID < results[j].ProfessionID
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

package planner

import (
	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

// requiredTagsFor returns the tags a recipe must carry to fill a slot.
// Composite-meal parts require both the meal tag and the part tag; simple
// meals draw from their tag family's main courses.
func requiredTagsFor(mt MealType, part PartName) []string {
	if tag, ok := simpleMealTag[mt]; ok {
		return []string{tag, "main course"}
	}
	return []string{string(mt), string(part)}
}

// slotCandidates filters the pool down to recipes eligible for a slot.
func slotCandidates(pool []recipe.Recipe, mt MealType, part PartName, profile *user.Profile) []recipe.Recipe {
	tags := requiredTagsFor(mt, part)

	var eligible []recipe.Recipe
	for _, rec := range pool {
		if !meetsDietaryExclusions(rec, profile) {
			continue
		}
		if !rec.HasAllTags(tags) {
			continue
		}
		eligible = append(eligible, rec)
	}
	return eligible
}

// chooseBest returns the id of the highest-scoring candidate, or nil when
// the list is empty. Candidates not yet in used are preferred, so repeated
// slots spread across the pool instead of converging on one recipe. Score
// ties break on the lower recipe id.
func chooseBest(candidates []recipe.Recipe, targetCalories float64, requiredTags []string, profile *user.Profile, w ScoringWeights, used map[int64]bool) *int64 {
	pick := func(fresh bool) *int64 {
		var best *int64
		var bestScore float64
		for _, rec := range candidates {
			if fresh && used[rec.ID] {
				continue
			}
			score := scoreRecipe(rec, targetCalories, requiredTags, profile, w)
			if best == nil || score > bestScore || (score == bestScore && rec.ID < *best) {
				id := rec.ID
				best = &id
				bestScore = score
			}
		}
		return best
	}

	if id := pick(true); id != nil {
		return id
	}
	return pick(false)
}

// selectForPart picks the best recipe in the pool for a slot, or nil when no
// eligible recipe exists.
func selectForPart(pool []recipe.Recipe, mt MealType, part PartName, targetCalories float64, profile *user.Profile, w ScoringWeights, used map[int64]bool) *int64 {
	candidates := slotCandidates(pool, mt, part, profile)
	return chooseBest(candidates, targetCalories, requiredTagsFor(mt, part), profile, w, used)
}

package planner

import (
	"math"
	"strings"

	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

// ScoringWeights control the relative influence of the three scoring terms.
type ScoringWeights struct {
	CalorieAlignment float64
	TagMatch         float64
	Feedback         float64
}

// DefaultScoringWeights weighs all terms equally.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{CalorieAlignment: 1, TagMatch: 1, Feedback: 1}
}

// scoreRecipe rates how well a recipe fits a slot. Higher is better.
//
// Calorie alignment is 1.0 at an exact match and decays linearly to 0 at
// 100% relative deviation. Each required tag carried adds 1.0, each matched
// dietary preference 0.5, and the user's feedback score is added as-is.
func scoreRecipe(rec recipe.Recipe, targetCalories float64, requiredTags []string, profile *user.Profile, w ScoringWeights) float64 {
	var calorieScore float64
	if targetCalories > 0 {
		deviation := math.Abs(rec.Calories-targetCalories) / targetCalories
		calorieScore = 1 - math.Min(deviation, 1)
	}

	var tagScore float64
	for _, tag := range requiredTags {
		if rec.HasTag(tag) {
			tagScore += 1
		}
	}

	var feedbackScore float64
	if profile != nil {
		for _, pref := range profile.DietaryPreferences {
			if rec.HasTag(pref) {
				tagScore += 0.5
			}
		}
		feedbackScore = profile.FeedbackFor(rec.ID)
	}

	return w.CalorieAlignment*calorieScore + w.TagMatch*tagScore + w.Feedback*feedbackScore
}

// meetsDietaryExclusions reports whether a recipe is eligible at all under
// the profile's hard constraints. Vegan excludes everything not tagged vegan;
// vegetarian accepts vegetarian and vegan recipes. Other preferences only
// influence scoring.
func meetsDietaryExclusions(rec recipe.Recipe, profile *user.Profile) bool {
	if profile == nil {
		return true
	}
	for _, pref := range profile.DietaryPreferences {
		switch strings.ToLower(pref) {
		case "vegan":
			if !rec.HasTag("vegan") {
				return false
			}
		case "vegetarian":
			if !rec.HasTag("vegetarian") && !rec.HasTag("vegan") {
				return false
			}
		}
	}
	return true
}

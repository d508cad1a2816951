package planner

import (
	"fmt"
	"math/rand"
	"time"

	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

// buildContext carries the shared state of one generation pass. The rng
// drives optional-part inclusion only, so a fixed seed makes the whole build
// reproducible. used tracks recipe ids already placed in the plan.
type buildContext struct {
	pool    []recipe.Recipe
	byID    map[int64]recipe.Recipe
	profile *user.Profile
	weights ScoringWeights
	rng     *rand.Rand
	start   time.Time
	used    map[int64]bool
}

func newBuildContext(pool []recipe.Recipe, profile *user.Profile, weights ScoringWeights, rng *rand.Rand, start time.Time) buildContext {
	byID := make(map[int64]recipe.Recipe, len(pool))
	for _, rec := range pool {
		byID[rec.ID] = rec
	}
	return buildContext{
		pool:    pool,
		byID:    byID,
		profile: profile,
		weights: weights,
		rng:     rng,
		start:   start,
		used:    make(map[int64]bool),
	}
}

func (bc buildContext) markUsed(id *int64) {
	if id != nil {
		bc.used[*id] = true
	}
}

// buildDeterministicPlan assembles a complete 3-day plan from the recipe
// pool alone. It always succeeds; slots with no eligible recipe stay empty.
func buildDeterministicPlan(bc buildContext, base float64, goal Goal) *MealPlan {
	plan := &MealPlan{
		Title:             fmt.Sprintf("Personalized Plan for %s", bc.profile.DisplayName()),
		UserEmail:         bc.profile.Email,
		BaseDailyCalories: base,
		Goal:              goal,
		MacroTargets:      MacroTargetsFor(goal),
	}
	for i, dt := range DayTypeOrder {
		plan.Days = append(plan.Days, bc.buildDay(dt, base, i))
	}
	return plan
}

func (bc buildContext) buildDay(dt DayType, base float64, dayIndex int) Day {
	target := DayCalorieTarget(base, dt)
	allocations := MealAllocations(dt, target)

	day := Day{
		Date:           bc.start.AddDate(0, 0, dayIndex).Format("2006-01-02"),
		Type:           dt,
		TargetCalories: target,
	}
	for _, mt := range MealTypesFor(dt) {
		day.Meals = append(day.Meals, bc.buildMeal(mt, allocations[mt]))
	}
	return day
}

func (bc buildContext) buildMeal(mt MealType, allocated float64) Meal {
	defs := partDefsFor(mt)
	meal := Meal{Type: mt, AllocatedCalories: allocated}

	// Each part aims at an equal share of the meal's allocation.
	partTarget := allocated / float64(len(defs))

	for _, def := range defs {
		part := MealPart{Name: def.Name, Required: def.Required}
		if def.Required || bc.rng.Float64() < def.InclusionProb {
			part.SelectedRecipeID = selectForPart(bc.pool, mt, def.Name, partTarget, bc.profile, bc.weights, bc.used)
			bc.markUsed(part.SelectedRecipeID)
		}
		meal.Parts = append(meal.Parts, part)
	}
	return meal
}

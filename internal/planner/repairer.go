package planner

import (
	"fmt"

	"nutriplan/internal/recipe"
)

// repairPlan rebuilds a structurally broken plan onto the canonical
// skeleton. Selections the model made from the offered candidates are kept;
// everything else (missing days or meals, hallucinated recipe ids, empty
// required parts) is re-selected deterministically from the candidate index.
func repairPlan(p *MealPlan, idx *CandidateIndex, bc buildContext, base float64, goal Goal) *MealPlan {
	bc.used = make(map[int64]bool)

	repaired := &MealPlan{
		Title:             p.Title,
		UserEmail:         bc.profile.Email,
		BaseDailyCalories: base,
		Goal:              goal,
		MacroTargets:      MacroTargetsFor(goal),
	}
	if repaired.Title == "" {
		repaired.Title = fmt.Sprintf("Personalized Plan for %s", bc.profile.DisplayName())
	}

	byType := make(map[DayType]*Day)
	for di := range p.Days {
		day := &p.Days[di]
		if _, known := dayCalorieMultipliers[day.Type]; known && byType[day.Type] == nil {
			byType[day.Type] = day
		}
	}

	for i, dt := range DayTypeOrder {
		repaired.Days = append(repaired.Days, bc.repairDay(byType[dt], dt, base, i, idx))
	}
	return repaired
}

func (bc buildContext) repairDay(aiDay *Day, dt DayType, base float64, dayIndex int, idx *CandidateIndex) Day {
	target := DayCalorieTarget(base, dt)
	allocations := MealAllocations(dt, target)

	day := Day{
		Date:           bc.start.AddDate(0, 0, dayIndex).Format("2006-01-02"),
		Type:           dt,
		TargetCalories: target,
	}

	for _, mt := range MealTypesFor(dt) {
		var aiMeal *Meal
		if aiDay != nil {
			for mi := range aiDay.Meals {
				if aiDay.Meals[mi].Type == mt {
					aiMeal = &aiDay.Meals[mi]
					break
				}
			}
		}
		day.Meals = append(day.Meals, bc.repairMeal(aiMeal, dt, mt, allocations[mt], idx))
	}
	return day
}

func (bc buildContext) repairMeal(aiMeal *Meal, dt DayType, mt MealType, allocated float64, idx *CandidateIndex) Meal {
	defs := partDefsFor(mt)
	meal := Meal{Type: mt, AllocatedCalories: allocated}
	partTarget := allocated / float64(len(defs))

	for _, def := range defs {
		part := MealPart{Name: def.Name, Required: def.Required}

		var aiPart *MealPart
		if aiMeal != nil {
			for pi := range aiMeal.Parts {
				if aiMeal.Parts[pi].Name == def.Name {
					aiPart = &aiMeal.Parts[pi]
					break
				}
			}
		}

		switch {
		case aiPart != nil && aiPart.SelectedRecipeID != nil:
			if idx.Allows(dt, mt, def.Name, *aiPart.SelectedRecipeID) {
				part.SelectedRecipeID = aiPart.SelectedRecipeID
			} else {
				part.SelectedRecipeID = bc.reselect(dt, mt, def.Name, partTarget, idx)
			}
		case aiPart != nil:
			// Explicit null. Honor it for optional parts; required parts
			// may only stay empty when the slot truly had no candidates.
			if def.Required && len(idx.Lookup(dt, mt, def.Name)) > 0 {
				part.SelectedRecipeID = bc.reselect(dt, mt, def.Name, partTarget, idx)
			}
		default:
			// The part is missing from the model output. Required parts
			// are filled; omitted optional parts stay empty.
			if def.Required {
				part.SelectedRecipeID = bc.reselect(dt, mt, def.Name, partTarget, idx)
			}
		}

		bc.markUsed(part.SelectedRecipeID)
		meal.Parts = append(meal.Parts, part)
	}
	return meal
}

// reselect picks deterministically, restricted to the recipes that were
// offered for the slot.
func (bc buildContext) reselect(dt DayType, mt MealType, part PartName, targetCalories float64, idx *CandidateIndex) *int64 {
	var candidates []recipe.Recipe
	for _, c := range idx.Lookup(dt, mt, part) {
		if rec, ok := bc.byID[c.RecipeID]; ok {
			candidates = append(candidates, rec)
		}
	}
	return chooseBest(candidates, targetCalories, requiredTagsFor(mt, part), bc.profile, bc.weights, bc.used)
}

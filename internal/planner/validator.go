package planner

import (
	"fmt"
	"math"
)

// ViolationKind classifies a validation finding.
type ViolationKind string

const (
	ViolationDaySet        ViolationKind = "day_set"
	ViolationMealSet       ViolationKind = "meal_set"
	ViolationPartSet       ViolationKind = "part_set"
	ViolationUnknownRecipe ViolationKind = "unknown_recipe"
	ViolationCalorieWindow ViolationKind = "calorie_window"
)

// Violation is one validation finding. Structural violations make a plan
// unusable as-is; calorie-window violations are advisory.
type Violation struct {
	Kind    ViolationKind
	Day     DayType
	Meal    MealType
	Part    PartName
	Message string
}

func (v Violation) Structural() bool {
	return v.Kind != ViolationCalorieWindow
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// hasStructural reports whether any violation is structural.
func hasStructural(violations []Violation) bool {
	for _, v := range violations {
		if v.Structural() {
			return true
		}
	}
	return false
}

// softViolations keeps only the advisory findings.
func softViolations(violations []Violation) []Violation {
	var soft []Violation
	for _, v := range violations {
		if !v.Structural() {
			soft = append(soft, v)
		}
	}
	return soft
}

// calorieTolerance is the accepted relative deviation between a day's
// realized calories and its target.
const calorieTolerance = 0.15

// validatePlan checks a plan against the fixed skeleton and the candidate
// index. With a nil index, recipe ids are checked against the pool instead;
// that mode suits plans built without a candidate pass. All findings are
// returned, not just the first.
func validatePlan(p *MealPlan, base float64, idx *CandidateIndex, bc buildContext) []Violation {
	var violations []Violation

	seen := make(map[DayType]*Day)
	for di := range p.Days {
		day := &p.Days[di]
		if _, known := dayCalorieMultipliers[day.Type]; !known {
			violations = append(violations, Violation{
				Kind:    ViolationDaySet,
				Message: fmt.Sprintf("unknown day type %q", day.Type),
			})
			continue
		}
		if seen[day.Type] != nil {
			violations = append(violations, Violation{
				Kind:    ViolationDaySet,
				Day:     day.Type,
				Message: fmt.Sprintf("duplicate %s day", day.Type),
			})
			continue
		}
		seen[day.Type] = day
	}

	for _, dt := range DayTypeOrder {
		day := seen[dt]
		if day == nil {
			violations = append(violations, Violation{
				Kind:    ViolationDaySet,
				Day:     dt,
				Message: fmt.Sprintf("missing %s day", dt),
			})
			continue
		}
		violations = append(violations, validateDay(day, dt, base, idx, bc)...)
	}

	return violations
}

func validateDay(day *Day, dt DayType, base float64, idx *CandidateIndex, bc buildContext) []Violation {
	var violations []Violation

	expected := MealTypesFor(dt)
	expectedSet := make(map[MealType]bool, len(expected))
	for _, mt := range expected {
		expectedSet[mt] = true
	}

	seen := make(map[MealType]*Meal)
	for mi := range day.Meals {
		meal := &day.Meals[mi]
		if !expectedSet[meal.Type] {
			violations = append(violations, Violation{
				Kind:    ViolationMealSet,
				Day:     dt,
				Meal:    meal.Type,
				Message: fmt.Sprintf("unexpected meal %q on %s day", meal.Type, dt),
			})
			continue
		}
		if seen[meal.Type] == nil {
			seen[meal.Type] = meal
		}
	}

	var realized float64
	for _, mt := range expected {
		meal := seen[mt]
		if meal == nil {
			violations = append(violations, Violation{
				Kind:    ViolationMealSet,
				Day:     dt,
				Meal:    mt,
				Message: fmt.Sprintf("missing meal %s on %s day", mt, dt),
			})
			continue
		}
		mealViolations, calories := validateMeal(meal, dt, idx, bc)
		violations = append(violations, mealViolations...)
		realized += calories
	}

	target := DayCalorieTarget(base, dt)
	if target > 0 {
		deviation := math.Abs(realized-target) / target
		if deviation > calorieTolerance {
			violations = append(violations, Violation{
				Kind: ViolationCalorieWindow,
				Day:  dt,
				Message: fmt.Sprintf("%s day sums to %.0f kcal, target %.0f (±%.0f%%)",
					dt, realized, target, calorieTolerance*100),
			})
		}
	}

	return violations
}

func validateMeal(meal *Meal, dt DayType, idx *CandidateIndex, bc buildContext) ([]Violation, float64) {
	var violations []Violation
	var calories float64

	defs := partDefsFor(meal.Type)
	expectedParts := make(map[PartName]partDef, len(defs))
	for _, def := range defs {
		expectedParts[def.Name] = def
	}

	seen := make(map[PartName]*MealPart)
	for pi := range meal.Parts {
		part := &meal.Parts[pi]
		if _, ok := expectedParts[part.Name]; !ok {
			violations = append(violations, Violation{
				Kind:    ViolationPartSet,
				Day:     dt,
				Meal:    meal.Type,
				Part:    part.Name,
				Message: fmt.Sprintf("unexpected part %q in %s", part.Name, meal.Type),
			})
			continue
		}
		if seen[part.Name] == nil {
			seen[part.Name] = part
		}
	}

	for _, def := range defs {
		part := seen[def.Name]
		if part == nil {
			violations = append(violations, Violation{
				Kind:    ViolationPartSet,
				Day:     dt,
				Meal:    meal.Type,
				Part:    def.Name,
				Message: fmt.Sprintf("missing part %s in %s", def.Name, meal.Type),
			})
			continue
		}

		if part.SelectedRecipeID == nil {
			// A bare required part is only acceptable when no candidate
			// existed for the slot.
			if def.Required && slotHasCandidates(dt, meal.Type, def.Name, idx, bc) {
				violations = append(violations, Violation{
					Kind:    ViolationPartSet,
					Day:     dt,
					Meal:    meal.Type,
					Part:    def.Name,
					Message: fmt.Sprintf("required part %s in %s left empty", def.Name, meal.Type),
				})
			}
			continue
		}

		id := *part.SelectedRecipeID
		if !recipeAllowed(dt, meal.Type, def.Name, id, idx, bc) {
			violations = append(violations, Violation{
				Kind:    ViolationUnknownRecipe,
				Day:     dt,
				Meal:    meal.Type,
				Part:    def.Name,
				Message: fmt.Sprintf("recipe %d was not offered for %s/%s/%s", id, dt, meal.Type, def.Name),
			})
			continue
		}
		calories += bc.byID[id].Calories
	}

	return violations, calories
}

func slotHasCandidates(dt DayType, mt MealType, part PartName, idx *CandidateIndex, bc buildContext) bool {
	if idx != nil {
		return len(idx.Lookup(dt, mt, part)) > 0
	}
	return len(slotCandidates(bc.pool, mt, part, bc.profile)) > 0
}

func recipeAllowed(dt DayType, mt MealType, part PartName, id int64, idx *CandidateIndex, bc buildContext) bool {
	if idx != nil {
		return idx.Allows(dt, mt, part, id)
	}
	_, ok := bc.byID[id]
	return ok
}

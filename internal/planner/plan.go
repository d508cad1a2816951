package planner

import (
	"strings"
)

// Goal is the user's nutrition goal.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
)

// ParseGoal normalizes a goal string, tolerating hyphens and mixed case.
func ParseGoal(s string) (Goal, bool) {
	switch Goal(normalizeToken(s)) {
	case GoalWeightLoss:
		return GoalWeightLoss, true
	case GoalMuscleGain:
		return GoalMuscleGain, true
	case GoalMaintenance:
		return GoalMaintenance, true
	}
	return "", false
}

// DayType classifies a plan day. Every plan has exactly one of each.
type DayType string

const (
	DayRegular DayType = "regular"
	DayWorkout DayType = "workout"
	DayRest    DayType = "rest"
)

// DayTypeOrder is the fixed order of days within a plan.
var DayTypeOrder = []DayType{DayRegular, DayWorkout, DayRest}

var dayCalorieMultipliers = map[DayType]float64{
	DayRegular: 1.00,
	DayWorkout: 1.20,
	DayRest:    0.90,
}

// MealType identifies a meal slot within a day.
type MealType string

const (
	MealBreakfast    MealType = "breakfast"
	MealLunch        MealType = "lunch"
	MealDinner       MealType = "dinner"
	MealMidMorning   MealType = "mid_morning"
	MealMidAfternoon MealType = "mid_afternoon"
	MealSupper       MealType = "supper"
	MealPreWorkout   MealType = "pre_workout"
	MealPostWorkout  MealType = "post_workout"
)

// PartName identifies a sub-component of a meal.
type PartName string

const (
	PartMainCourse PartName = "main course"
	PartFruit      PartName = "fruit"
	PartDairy      PartName = "dairy"
	PartSoup       PartName = "soup"
)

// MacroTargets are the macronutrient fractions for a goal. They sum to 1.0.
type MacroTargets struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// MacroTargetsFor returns the macro split for a goal.
func MacroTargetsFor(goal Goal) MacroTargets {
	switch goal {
	case GoalWeightLoss:
		return MacroTargets{Protein: 0.35, Carbs: 0.40, Fat: 0.25}
	case GoalMuscleGain:
		return MacroTargets{Protein: 0.30, Carbs: 0.50, Fat: 0.20}
	default:
		return MacroTargets{Protein: 0.25, Carbs: 0.50, Fat: 0.25}
	}
}

// MealPart is one recipe slot within a meal. A nil SelectedRecipeID on a
// required part means no matching recipe existed; on an optional part it
// means the part was skipped. The part entry itself is always present.
type MealPart struct {
	Name             PartName `json:"name"`
	Required         bool     `json:"required"`
	SelectedRecipeID *int64   `json:"selected_recipe_id"`
}

// Meal is one meal slot with its calorie allocation and ordered parts.
type Meal struct {
	Type              MealType   `json:"meal_type"`
	AllocatedCalories float64    `json:"allocated_calories_for_meal"`
	Parts             []MealPart `json:"parts"`
}

// Day is one plan day.
type Day struct {
	Date           string  `json:"date"`
	Type           DayType `json:"day_type"`
	TargetCalories float64 `json:"target_calories_for_day"`
	Meals          []Meal  `json:"meals"`
}

// MealPlan is a complete, validated 3-day plan. It is constructed in one
// generation pass and never mutated afterwards.
type MealPlan struct {
	ID                string       `json:"id,omitempty"`
	Title             string       `json:"title"`
	UserEmail         string       `json:"user_email"`
	BaseDailyCalories float64      `json:"base_daily_calories"`
	Goal              Goal         `json:"goal"`
	MacroTargets      MacroTargets `json:"macro_targets"`
	Days              []Day        `json:"days"`
}

// partDef describes one part slot of a meal's fixed structure.
type partDef struct {
	Name          PartName
	Required      bool
	InclusionProb float64
}

// compositeMealParts is the fixed part structure of the three main meals.
var compositeMealParts = map[MealType][]partDef{
	MealBreakfast: {
		{Name: PartMainCourse, Required: true},
		{Name: PartFruit, Required: false, InclusionProb: 0.5},
		{Name: PartDairy, Required: false, InclusionProb: 0.5},
	},
	MealLunch: {
		{Name: PartMainCourse, Required: true},
		{Name: PartSoup, Required: false, InclusionProb: 0.5},
	},
	MealDinner: {
		{Name: PartMainCourse, Required: true},
		{Name: PartSoup, Required: false, InclusionProb: 0.5},
	},
}

// simpleMealTag maps each simple meal to the recipe tag family it draws from.
var simpleMealTag = map[MealType]string{
	MealMidMorning:   "breakfast",
	MealMidAfternoon: "breakfast",
	MealSupper:       "dinner",
	MealPreWorkout:   "pre-workout",
	MealPostWorkout:  "post-workout",
}

// mealFractions are the relative calorie shares per meal type. Allocations
// are renormalized over the day's actual meal set so each day sums to its
// target regardless of which meals are present.
var mealFractions = map[MealType]float64{
	MealBreakfast:    0.25,
	MealLunch:        0.35,
	MealDinner:       0.30,
	MealMidMorning:   0.05,
	MealMidAfternoon: 0.05,
	MealSupper:       0.10,
	MealPreWorkout:   0.05,
	MealPostWorkout:  0.05,
}

// MealTypesFor returns the ordered meal set for a day type. Workout days
// carry pre- and post-workout meals in addition to the regular six.
func MealTypesFor(dt DayType) []MealType {
	meals := []MealType{
		MealBreakfast, MealMidMorning, MealLunch,
		MealMidAfternoon, MealDinner, MealSupper,
	}
	if dt == DayWorkout {
		meals = append(meals, MealPreWorkout, MealPostWorkout)
	}
	return meals
}

// DayCalorieTarget returns base calories scaled by the day-type multiplier.
func DayCalorieTarget(base float64, dt DayType) float64 {
	return base * dayCalorieMultipliers[dt]
}

// MealAllocations splits a day's calorie target across its meal set.
func MealAllocations(dt DayType, targetCalories float64) map[MealType]float64 {
	meals := MealTypesFor(dt)

	var total float64
	for _, mt := range meals {
		total += mealFractions[mt]
	}

	allocations := make(map[MealType]float64, len(meals))
	for _, mt := range meals {
		allocations[mt] = targetCalories * mealFractions[mt] / total
	}
	return allocations
}

// partDefsFor returns the part structure of a meal. Simple meals carry a
// single required main-course slot.
func partDefsFor(mt MealType) []partDef {
	if defs, ok := compositeMealParts[mt]; ok {
		return defs
	}
	return []partDef{{Name: PartMainCourse, Required: true}}
}

// normalizeToken lowercases a label and folds hyphens and spaces into
// underscores, so "Pre-Workout" and "pre_workout" compare equal.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func parseDayType(s string) (DayType, bool) {
	switch DayType(normalizeToken(s)) {
	case DayRegular:
		return DayRegular, true
	case DayWorkout:
		return DayWorkout, true
	case DayRest:
		return DayRest, true
	}
	return "", false
}

func parseMealType(s string) (MealType, bool) {
	switch MealType(normalizeToken(s)) {
	case MealBreakfast, MealLunch, MealDinner, MealMidMorning,
		MealMidAfternoon, MealSupper, MealPreWorkout, MealPostWorkout:
		return MealType(normalizeToken(s)), true
	}
	return "", false
}

func parsePartName(s string) (PartName, bool) {
	switch normalizeToken(s) {
	case "main_course", "main":
		return PartMainCourse, true
	case "fruit":
		return PartFruit, true
	case "dairy":
		return PartDairy, true
	case "soup":
		return PartSoup, true
	}
	return "", false
}

// normalizePlan folds model-produced labels into their canonical enum forms
// in place. Unrecognized labels are left untouched for the validator to flag.
func normalizePlan(p *MealPlan) {
	if goal, ok := ParseGoal(string(p.Goal)); ok {
		p.Goal = goal
	}
	for di := range p.Days {
		if dt, ok := parseDayType(string(p.Days[di].Type)); ok {
			p.Days[di].Type = dt
		}
		for mi := range p.Days[di].Meals {
			meal := &p.Days[di].Meals[mi]
			if mt, ok := parseMealType(string(meal.Type)); ok {
				meal.Type = mt
			}
			for pi := range meal.Parts {
				if pn, ok := parsePartName(string(meal.Parts[pi].Name)); ok {
					meal.Parts[pi].Name = pn
				}
			}
		}
	}
}

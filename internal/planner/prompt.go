package planner

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
)

//go:embed plan_prompt.md
var planPromptMarkdown string

// text/template rather than html/template: the candidate JSON must reach the
// model unescaped.
var planPromptTemplate = template.Must(
	template.New("plan_prompt").Funcs(template.FuncMap{
		"json": func(v interface{}) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"mulPercent": func(f float64) float64 { return f * 100 },
	}).Parse(planPromptMarkdown),
)

type promptPart struct {
	Name     PartName
	Required bool
}

type promptMeal struct {
	Type              MealType
	AllocatedCalories float64
	Parts             []promptPart
}

type promptDay struct {
	Date           string
	Type           DayType
	TargetCalories float64
	Meals          []promptMeal
}

type promptData struct {
	UserName     string
	UserEmail    string
	Preferences  []string
	Goal         Goal
	BaseCalories float64
	Macro        MacroTargets
	Days         []promptDay
	Slots        []SlotCandidates
}

// buildPlanPrompt renders the full generation prompt: user context, the
// fixed plan skeleton, and the per-slot candidate lists.
func buildPlanPrompt(bc buildContext, base float64, goal Goal, idx *CandidateIndex) (string, error) {
	data := promptData{
		UserName:     bc.profile.DisplayName(),
		UserEmail:    bc.profile.Email,
		Preferences:  bc.profile.DietaryPreferences,
		Goal:         goal,
		BaseCalories: base,
		Macro:        MacroTargetsFor(goal),
		Slots:        idx.Slots,
	}

	for i, dt := range DayTypeOrder {
		target := DayCalorieTarget(base, dt)
		allocations := MealAllocations(dt, target)
		day := promptDay{
			Date:           bc.start.AddDate(0, 0, i).Format("2006-01-02"),
			Type:           dt,
			TargetCalories: target,
		}
		for _, mt := range MealTypesFor(dt) {
			meal := promptMeal{Type: mt, AllocatedCalories: allocations[mt]}
			for _, def := range partDefsFor(mt) {
				meal.Parts = append(meal.Parts, promptPart{Name: def.Name, Required: def.Required})
			}
			day.Meals = append(day.Meals, meal)
		}
		data.Days = append(data.Days, day)
	}

	var buf bytes.Buffer
	if err := planPromptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render plan prompt: %w", err)
	}
	return buf.String(), nil
}

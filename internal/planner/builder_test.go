package planner

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

// testPool covers every slot family of the plan skeleton.
func testPool() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Title: "Oatmeal Bowl", Calories: 320, Tags: []string{"breakfast", "main course", "vegetarian", "healthy"}},
		{ID: 2, Title: "Scrambled Eggs", Calories: 380, Tags: []string{"breakfast", "main course", "vegetarian"}},
		{ID: 3, Title: "Avocado Toast", Calories: 350, Tags: []string{"breakfast", "main course", "vegan"}},
		{ID: 4, Title: "Pancakes", Calories: 450, Tags: []string{"breakfast", "main course", "vegetarian"}},

		{ID: 10, Title: "Apple", Calories: 90, Tags: []string{"breakfast", "fruit", "vegan", "healthy"}},
		{ID: 11, Title: "Banana", Calories: 110, Tags: []string{"breakfast", "fruit", "vegan"}},
		{ID: 12, Title: "Greek Yogurt", Calories: 140, Tags: []string{"breakfast", "dairy", "vegetarian"}},
		{ID: 13, Title: "Cottage Cheese", Calories: 120, Tags: []string{"breakfast", "dairy", "vegetarian"}},

		{ID: 20, Title: "Grilled Chicken Salad", Calories: 550, Tags: []string{"lunch", "main course", "healthy"}},
		{ID: 21, Title: "Lentil Curry", Calories: 600, Tags: []string{"lunch", "main course", "vegan"}},
		{ID: 22, Title: "Beef Stir Fry", Calories: 650, Tags: []string{"lunch", "main course"}},
		{ID: 23, Title: "Quinoa Bowl", Calories: 520, Tags: []string{"lunch", "main course", "vegetarian"}},

		{ID: 30, Title: "Baked Salmon", Calories: 500, Tags: []string{"dinner", "main course", "healthy"}},
		{ID: 31, Title: "Veggie Lasagna", Calories: 580, Tags: []string{"dinner", "main course", "vegetarian"}},
		{ID: 32, Title: "Chickpea Stew", Calories: 540, Tags: []string{"dinner", "main course", "vegan"}},
		{ID: 33, Title: "Turkey Meatballs", Calories: 560, Tags: []string{"dinner", "main course"}},

		{ID: 40, Title: "Tomato Soup", Calories: 180, Tags: []string{"lunch", "dinner", "soup", "vegan"}},
		{ID: 41, Title: "Chicken Broth", Calories: 150, Tags: []string{"lunch", "dinner", "soup"}},

		{ID: 50, Title: "Energy Bites", Calories: 160, Tags: []string{"pre-workout", "main course", "vegan"}},
		{ID: 51, Title: "Protein Shake", Calories: 220, Tags: []string{"post-workout", "main course", "vegetarian"}},
	}
}

func testProfile() *user.Profile {
	return &user.Profile{
		Email:         "anna@example.com",
		Name:          "Anna",
		ActivityLevel: user.ActivitySedentary,
	}
}

func testBuildContext(pool []recipe.Recipe, profile *user.Profile, seed int64) buildContext {
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	return newBuildContext(pool, profile, DefaultScoringWeights(), rand.New(rand.NewSource(seed)), start)
}

func TestBuildDeterministicPlan(t *testing.T) {
	bc := testBuildContext(testPool(), testProfile(), 42)
	plan := buildDeterministicPlan(bc, 2000, GoalMaintenance)

	if len(plan.Days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(plan.Days))
	}
	for i, dt := range DayTypeOrder {
		if plan.Days[i].Type != dt {
			t.Errorf("Day %d: expected type %s, got %s", i, dt, plan.Days[i].Type)
		}
	}

	wantDates := []string{"2025-06-02", "2025-06-03", "2025-06-04"}
	for i, want := range wantDates {
		if plan.Days[i].Date != want {
			t.Errorf("Day %d: expected date %s, got %s", i, want, plan.Days[i].Date)
		}
	}

	if plan.Days[0].TargetCalories != 2000 || plan.Days[1].TargetCalories != 2400 || plan.Days[2].TargetCalories != 1800 {
		t.Errorf("Unexpected day targets: %v, %v, %v",
			plan.Days[0].TargetCalories, plan.Days[1].TargetCalories, plan.Days[2].TargetCalories)
	}

	for _, day := range plan.Days {
		if len(day.Meals) != len(MealTypesFor(day.Type)) {
			t.Errorf("%s day: expected %d meals, got %d", day.Type, len(MealTypesFor(day.Type)), len(day.Meals))
		}
		for _, meal := range day.Meals {
			for _, part := range meal.Parts {
				if part.Required && part.SelectedRecipeID == nil {
					t.Errorf("%s day, %s: required part %s has no recipe despite a populated pool",
						day.Type, meal.Type, part.Name)
				}
			}
		}
	}
}

func TestBuildDeterministicPlanIsReproducible(t *testing.T) {
	pool := testPool()
	profile := testProfile()

	first := buildDeterministicPlan(testBuildContext(pool, profile, 7), 2000, GoalWeightLoss)
	second := buildDeterministicPlan(testBuildContext(pool, profile, 7), 2000, GoalWeightLoss)

	if !reflect.DeepEqual(first, second) {
		t.Error("Two builds with the same seed produced different plans")
	}
}

func TestBuildDeterministicPlanEmptyPool(t *testing.T) {
	bc := testBuildContext(nil, testProfile(), 1)
	plan := buildDeterministicPlan(bc, 2000, GoalMaintenance)

	if len(plan.Days) != 3 {
		t.Fatalf("Expected 3 days even with an empty pool, got %d", len(plan.Days))
	}
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, part := range meal.Parts {
				if part.SelectedRecipeID != nil {
					t.Errorf("Expected no selections with an empty pool, got recipe %d", *part.SelectedRecipeID)
				}
			}
		}
	}
}

func TestBuildDeterministicPlanSpreadsSelections(t *testing.T) {
	bc := testBuildContext(testPool(), testProfile(), 3)
	plan := buildDeterministicPlan(bc, 2000, GoalMaintenance)

	// Lunch mains across the three days should not collapse onto one recipe.
	seen := map[int64]int{}
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			if meal.Type != MealLunch {
				continue
			}
			for _, part := range meal.Parts {
				if part.Name == PartMainCourse && part.SelectedRecipeID != nil {
					seen[*part.SelectedRecipeID]++
				}
			}
		}
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("Recipe %d fills %d lunch slots; expected selections to spread", id, count)
		}
	}
}

func TestBuildCandidateIndex(t *testing.T) {
	bc := testBuildContext(testPool(), testProfile(), 1)
	idx := buildCandidateIndex(bc, 2000)

	// 3 breakfast + 2 lunch + 2 dinner + 3 simple slots on regular and rest
	// days, plus 2 extra workout slots.
	wantSlots := 10 + 12 + 10
	if len(idx.Slots) != wantSlots {
		t.Errorf("Expected %d slots, got %d", wantSlots, len(idx.Slots))
	}

	lunchMains := idx.Lookup(DayRegular, MealLunch, PartMainCourse)
	if len(lunchMains) != 4 {
		t.Fatalf("Expected 4 lunch main candidates, got %d", len(lunchMains))
	}
	for _, c := range lunchMains {
		if !idx.Allows(DayRegular, MealLunch, PartMainCourse, c.RecipeID) {
			t.Errorf("Candidate %d not allowed for its own slot", c.RecipeID)
		}
	}
	if idx.Allows(DayRegular, MealLunch, PartMainCourse, 9999) {
		t.Error("Unknown recipe id must not be allowed")
	}
	if idx.Allows(DayRegular, MealLunch, PartMainCourse, 10) {
		t.Error("A fruit recipe must not be allowed as a lunch main")
	}
}

func TestBuildCandidateIndexCapsListLength(t *testing.T) {
	var pool []recipe.Recipe
	for i := int64(1); i <= 25; i++ {
		pool = append(pool, recipe.Recipe{
			ID:       i,
			Title:    "Lunch Option",
			Calories: 500 + float64(i),
			Tags:     []string{"lunch", "main course"},
		})
	}

	bc := testBuildContext(pool, testProfile(), 1)
	idx := buildCandidateIndex(bc, 2000)

	got := idx.Lookup(DayRegular, MealLunch, PartMainCourse)
	if len(got) != candidatesPerSlot {
		t.Errorf("Expected candidate list capped at %d, got %d", candidatesPerSlot, len(got))
	}
}

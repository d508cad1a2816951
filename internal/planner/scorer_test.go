package planner

import (
	"testing"

	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

func TestScoreRecipeCalorieAlignment(t *testing.T) {
	w := DefaultScoringWeights()
	exact := recipe.Recipe{ID: 1, Calories: 500}
	off := recipe.Recipe{ID: 2, Calories: 900}

	if scoreRecipe(exact, 500, nil, nil, w) <= scoreRecipe(off, 500, nil, nil, w) {
		t.Error("Expected an exact calorie match to outscore a distant one")
	}

	// Beyond 100% deviation the calorie term bottoms out at zero.
	far := recipe.Recipe{ID: 3, Calories: 5000}
	if got := scoreRecipe(far, 500, nil, nil, w); got != 0 {
		t.Errorf("Expected score 0 for an extreme outlier with no tags, got %v", got)
	}
}

func TestScoreRecipeTagAndFeedbackTerms(t *testing.T) {
	w := DefaultScoringWeights()
	rec := recipe.Recipe{ID: 7, Calories: 500, Tags: []string{"lunch", "main course", "healthy"}}
	profile := &user.Profile{
		DietaryPreferences: []string{"healthy"},
		Feedback:           map[int64]float64{7: 2},
	}

	base := scoreRecipe(rec, 500, nil, nil, w)
	withTags := scoreRecipe(rec, 500, []string{"lunch", "main course"}, nil, w)
	if withTags != base+2 {
		t.Errorf("Expected two required tags to add 2.0, got %v -> %v", base, withTags)
	}

	withProfile := scoreRecipe(rec, 500, []string{"lunch", "main course"}, profile, w)
	if withProfile != withTags+0.5+2 {
		t.Errorf("Expected preference (+0.5) and feedback (+2) on top of %v, got %v", withTags, withProfile)
	}
}

func TestScoreRecipeWeights(t *testing.T) {
	rec := recipe.Recipe{ID: 1, Calories: 500, Tags: []string{"lunch"}}

	onlyTags := ScoringWeights{CalorieAlignment: 0, TagMatch: 1, Feedback: 0}
	if got := scoreRecipe(rec, 500, []string{"lunch"}, nil, onlyTags); got != 1 {
		t.Errorf("Expected tag-only score 1, got %v", got)
	}

	muted := ScoringWeights{}
	if got := scoreRecipe(rec, 500, []string{"lunch"}, nil, muted); got != 0 {
		t.Errorf("Expected zero weights to mute the score, got %v", got)
	}
}

func TestMeetsDietaryExclusions(t *testing.T) {
	meat := recipe.Recipe{ID: 1, Tags: []string{"lunch", "main course"}}
	veggie := recipe.Recipe{ID: 2, Tags: []string{"lunch", "vegetarian"}}
	vegan := recipe.Recipe{ID: 3, Tags: []string{"lunch", "vegan"}}

	veganProfile := &user.Profile{DietaryPreferences: []string{"vegan"}}
	vegetarianProfile := &user.Profile{DietaryPreferences: []string{"vegetarian"}}

	if meetsDietaryExclusions(meat, veganProfile) || meetsDietaryExclusions(veggie, veganProfile) {
		t.Error("Vegan profile must exclude everything not tagged vegan")
	}
	if !meetsDietaryExclusions(vegan, veganProfile) {
		t.Error("Vegan profile must accept vegan recipes")
	}
	if meetsDietaryExclusions(meat, vegetarianProfile) {
		t.Error("Vegetarian profile must exclude untagged recipes")
	}
	if !meetsDietaryExclusions(veggie, vegetarianProfile) || !meetsDietaryExclusions(vegan, vegetarianProfile) {
		t.Error("Vegetarian profile must accept vegetarian and vegan recipes")
	}
	if !meetsDietaryExclusions(meat, nil) {
		t.Error("A nil profile must not exclude anything")
	}
}

func TestChooseBest(t *testing.T) {
	w := DefaultScoringWeights()
	candidates := []recipe.Recipe{
		{ID: 5, Calories: 500},
		{ID: 3, Calories: 500},
		{ID: 9, Calories: 900},
	}

	t.Run("TieBreaksOnLowerID", func(t *testing.T) {
		got := chooseBest(candidates, 500, nil, nil, w, nil)
		if got == nil || *got != 3 {
			t.Errorf("Expected recipe 3 to win the tie, got %v", got)
		}
	})

	t.Run("PrefersUnused", func(t *testing.T) {
		used := map[int64]bool{3: true}
		got := chooseBest(candidates, 500, nil, nil, w, used)
		if got == nil || *got != 5 {
			t.Errorf("Expected the unused recipe 5, got %v", got)
		}
	})

	t.Run("FallsBackToUsed", func(t *testing.T) {
		used := map[int64]bool{3: true, 5: true, 9: true}
		got := chooseBest(candidates, 500, nil, nil, w, used)
		if got == nil || *got != 3 {
			t.Errorf("Expected the best used recipe when all are used, got %v", got)
		}
	})

	t.Run("EmptyList", func(t *testing.T) {
		if got := chooseBest(nil, 500, nil, nil, w, nil); got != nil {
			t.Errorf("Expected nil for an empty candidate list, got %v", got)
		}
	})
}

func TestSlotCandidatesRequireMealAndPartTags(t *testing.T) {
	pool := []recipe.Recipe{
		{ID: 1, Title: "Fruit Salad", Tags: []string{"breakfast", "fruit"}},
		{ID: 2, Title: "Miso Soup", Tags: []string{"dinner", "soup"}},
		{ID: 3, Title: "Omelette", Tags: []string{"breakfast", "main course"}},
	}

	mains := slotCandidates(pool, MealBreakfast, PartMainCourse, nil)
	if len(mains) != 1 || mains[0].ID != 3 {
		t.Errorf("Breakfast main course must require both tags, got %v", mains)
	}

	fruit := slotCandidates(pool, MealBreakfast, PartFruit, nil)
	if len(fruit) != 1 || fruit[0].ID != 1 {
		t.Errorf("Breakfast fruit slot must match the fruit recipe only, got %v", fruit)
	}

	if got := slotCandidates(pool, MealLunch, PartSoup, nil); len(got) != 0 {
		t.Errorf("A dinner-only soup must not fill a lunch soup slot, got %v", got)
	}
}

func TestRequiredTagsFor(t *testing.T) {
	cases := []struct {
		mt   MealType
		part PartName
		want []string
	}{
		{MealBreakfast, PartMainCourse, []string{"breakfast", "main course"}},
		{MealLunch, PartMainCourse, []string{"lunch", "main course"}},
		{MealDinner, PartSoup, []string{"dinner", "soup"}},
		{MealBreakfast, PartFruit, []string{"breakfast", "fruit"}},
		{MealMidMorning, PartMainCourse, []string{"breakfast", "main course"}},
		{MealSupper, PartMainCourse, []string{"dinner", "main course"}},
		{MealPreWorkout, PartMainCourse, []string{"pre-workout", "main course"}},
		{MealPostWorkout, PartMainCourse, []string{"post-workout", "main course"}},
	}
	for _, c := range cases {
		got := requiredTagsFor(c.mt, c.part)
		if len(got) != len(c.want) {
			t.Errorf("requiredTagsFor(%s, %s) = %v, expected %v", c.mt, c.part, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("requiredTagsFor(%s, %s) = %v, expected %v", c.mt, c.part, got, c.want)
			}
		}
	}
}

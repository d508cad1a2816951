package planner

import (
	"sort"
)

// candidatesPerSlot caps how many recipes are offered to the model per slot.
const candidatesPerSlot = 10

// Candidate is one recipe offered to the model for a slot, trimmed to the
// fields the model needs to choose.
type Candidate struct {
	RecipeID int64    `json:"recipe_id"`
	Title    string   `json:"title"`
	Calories float64  `json:"calories"`
	Tags     []string `json:"tags"`
}

// SlotCandidates is the ranked candidate list for one (day, meal, part) slot.
type SlotCandidates struct {
	Day            DayType
	Meal           MealType
	Part           PartName
	TargetCalories float64
	Candidates     []Candidate
}

type slotKey struct {
	day  DayType
	meal MealType
	part PartName
}

// CandidateIndex holds every slot's candidate list for one generation pass.
// The model may only select recipe ids present here; anything else is a
// hallucination.
type CandidateIndex struct {
	Slots []SlotCandidates

	byKey map[slotKey]map[int64]bool
}

// buildCandidateIndex ranks the top candidates for every slot of the plan
// skeleton. Slots are ordered day-major so the prompt reads top to bottom.
func buildCandidateIndex(bc buildContext, base float64) *CandidateIndex {
	idx := &CandidateIndex{byKey: make(map[slotKey]map[int64]bool)}

	for _, dt := range DayTypeOrder {
		allocations := MealAllocations(dt, DayCalorieTarget(base, dt))
		for _, mt := range MealTypesFor(dt) {
			defs := partDefsFor(mt)
			partTarget := allocations[mt] / float64(len(defs))
			for _, def := range defs {
				slot := SlotCandidates{
					Day:            dt,
					Meal:           mt,
					Part:           def.Name,
					TargetCalories: partTarget,
					Candidates:     rankCandidates(bc, mt, def.Name, partTarget),
				}
				idx.Slots = append(idx.Slots, slot)

				ids := make(map[int64]bool, len(slot.Candidates))
				for _, c := range slot.Candidates {
					ids[c.RecipeID] = true
				}
				idx.byKey[slotKey{dt, mt, def.Name}] = ids
			}
		}
	}
	return idx
}

func rankCandidates(bc buildContext, mt MealType, part PartName, targetCalories float64) []Candidate {
	eligible := slotCandidates(bc.pool, mt, part, bc.profile)
	tags := requiredTagsFor(mt, part)

	type scored struct {
		candidate Candidate
		score     float64
	}
	ranked := make([]scored, 0, len(eligible))
	for _, rec := range eligible {
		ranked = append(ranked, scored{
			candidate: Candidate{
				RecipeID: rec.ID,
				Title:    rec.Title,
				Calories: rec.Calories,
				Tags:     rec.Tags,
			},
			score: scoreRecipe(rec, targetCalories, tags, bc.profile, bc.weights),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].candidate.RecipeID < ranked[j].candidate.RecipeID
	})

	if len(ranked) > candidatesPerSlot {
		ranked = ranked[:candidatesPerSlot]
	}
	candidates := make([]Candidate, len(ranked))
	for i, s := range ranked {
		candidates[i] = s.candidate
	}
	return candidates
}

// Allows reports whether a recipe id was offered for the given slot.
func (idx *CandidateIndex) Allows(day DayType, meal MealType, part PartName, recipeID int64) bool {
	return idx.byKey[slotKey{day, meal, part}][recipeID]
}

// Lookup returns the candidate list for a slot, nil for unknown slots.
func (idx *CandidateIndex) Lookup(day DayType, meal MealType, part PartName) []Candidate {
	for i := range idx.Slots {
		s := &idx.Slots[i]
		if s.Day == day && s.Meal == meal && s.Part == part {
			return s.Candidates
		}
	}
	return nil
}

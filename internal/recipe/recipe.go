package recipe

import (
	"strings"
)

// Recipe is an immutable recipe with its nutrition facts and tags.
// Plans reference recipes by id only.
type Recipe struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Tags     []string `json:"tags"`
}

// HasTag reports whether the recipe carries the given tag, case-insensitively.
func (r Recipe) HasTag(name string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the recipe carries every given tag.
func (r Recipe) HasAllTags(names []string) bool {
	for _, n := range names {
		if !r.HasTag(n) {
			return false
		}
	}
	return true
}

// CalorieRange bounds a recipe query. A zero Min or Max means unbounded on
// that side.
type CalorieRange struct {
	Min float64
	Max float64
}

// Contains reports whether the given calorie value falls inside the range.
func (cr CalorieRange) Contains(calories float64) bool {
	if cr.Min > 0 && calories < cr.Min {
		return false
	}
	if cr.Max > 0 && calories > cr.Max {
		return false
	}
	return true
}

package user

// ActivityLevel describes how physically active a user is.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
)

// Profile holds a user's dietary preferences and recipe feedback. The engine
// treats a Profile as an immutable snapshot for the duration of one
// generation pass.
type Profile struct {
	Email              string            `json:"email"`
	Name               string            `json:"name,omitempty"`
	DietaryPreferences []string          `json:"dietary_preferences,omitempty"`
	ActivityLevel      ActivityLevel     `json:"activity_level,omitempty"`
	Feedback           map[int64]float64 `json:"feedback,omitempty"`
}

// DisplayName returns the user's name, falling back to their email.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// FeedbackFor returns the signed preference score for a recipe, 0 when absent.
func (p *Profile) FeedbackFor(recipeID int64) float64 {
	if p.Feedback == nil {
		return 0
	}
	return p.Feedback[recipeID]
}

// CalorieAdjustment returns the multiplier applied to the base daily calories
// for this activity level.
func (p *Profile) CalorieAdjustment() float64 {
	switch p.ActivityLevel {
	case ActivityModerate, ActivityHigh:
		return 1.10
	default:
		return 1.0
	}
}

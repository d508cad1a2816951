package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"nutriplan/internal/llm"
	"nutriplan/internal/recipe"
	"nutriplan/internal/shared"
	"nutriplan/internal/user"
)

// Accepted range for the requested base daily calories.
const (
	MinDailyCalories = 1200
	MaxDailyCalories = 5000
)

// DefaultMinRecipesForAI is the pool size below which the model pass is
// skipped outright; tiny pools produce degenerate candidate lists.
const DefaultMinRecipesForAI = 10

// Generation methods recorded on stored plans.
const (
	MethodAI            = "ai"
	MethodAIRepaired    = "ai_repaired"
	MethodDeterministic = "deterministic"
)

// ConfigError marks an invalid generation request. It is the only error
// class Generate returns for bad input; callers can detect it with
// errors.As.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid generation request: " + e.Reason
}

// RecipeSource supplies the recipe pool.
type RecipeSource interface {
	QueryByTags(ctx context.Context, tags []string, cr recipe.CalorieRange) ([]recipe.Recipe, error)
}

// ProfileSource supplies user profiles.
type ProfileSource interface {
	Get(email string) (*user.Profile, error)
}

// PlanSink persists finished plans.
type PlanSink interface {
	Save(ctx context.Context, plan *MealPlan, method string) (string, error)
}

// Request describes one plan generation.
type Request struct {
	UserEmail          string
	BaseDailyCalories  float64
	Goal               string
	Model              string
	ForceDeterministic bool
}

// Result is the outcome of a generation pass. Violations holds any
// remaining advisory findings; a returned plan never has structural ones.
type Result struct {
	Plan       *MealPlan
	Method     string
	StoredID   string
	Violations []Violation
	Meta       shared.CallMeta
}

// Generator produces meal plans. The model pass is best-effort: any failure
// there falls back to the deterministic builder, so Generate only fails on
// invalid input or an unavailable store.
type Generator struct {
	recipes  RecipeSource
	profiles ProfileSource
	plans    PlanSink
	textGen  llm.TextGenerator

	weights         ScoringWeights
	rng             *rand.Rand
	now             func() time.Time
	minRecipesForAI int
}

// NewGenerator creates a Generator. plans and textGen may be nil; a nil
// textGen disables the model pass entirely.
func NewGenerator(recipes RecipeSource, profiles ProfileSource, plans PlanSink, textGen llm.TextGenerator) *Generator {
	return &Generator{
		recipes:         recipes,
		profiles:        profiles,
		plans:           plans,
		textGen:         textGen,
		weights:         DefaultScoringWeights(),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		now:             time.Now,
		minRecipesForAI: DefaultMinRecipesForAI,
	}
}

// WithWeights overrides the scoring weights.
func (g *Generator) WithWeights(w ScoringWeights) *Generator {
	g.weights = w
	return g
}

// WithSeed makes optional-part inclusion reproducible.
func (g *Generator) WithSeed(seed int64) *Generator {
	g.rng = rand.New(rand.NewSource(seed))
	return g
}

// WithMinRecipesForAI overrides the pool-size gate for the model pass.
func (g *Generator) WithMinRecipesForAI(n int) *Generator {
	g.minRecipesForAI = n
	return g
}

// WithClock overrides the clock used for plan dates.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces, validates and stores a 3-day meal plan.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	goal, ok := ParseGoal(req.Goal)
	if !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown goal %q", req.Goal)}
	}
	if req.BaseDailyCalories < MinDailyCalories || req.BaseDailyCalories > MaxDailyCalories {
		return nil, &ConfigError{Reason: fmt.Sprintf(
			"base daily calories %.0f outside [%d, %d]",
			req.BaseDailyCalories, MinDailyCalories, MaxDailyCalories)}
	}

	profile, err := g.profiles.Get(req.UserEmail)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("no profile for %q: %v", req.UserEmail, err)}
	}

	// Hard dietary exclusions are enforced per slot, so the pool is loaded
	// unfiltered and preferences stay a soft scoring signal.
	pool, err := g.recipes.QueryByTags(ctx, nil, recipe.CalorieRange{})
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe pool: %w", err)
	}

	base := req.BaseDailyCalories * profile.CalorieAdjustment()
	bc := newBuildContext(pool, profile, g.weights, g.rng, g.now())

	result := &Result{}
	if !req.ForceDeterministic && g.textGen != nil && len(pool) >= g.minRecipesForAI {
		plan, method, violations, meta, aiErr := g.attemptAI(ctx, bc, base, goal)
		if aiErr != nil {
			log.Printf("AI generation failed: %v. Falling back to deterministic generation.", aiErr)
		} else {
			result.Plan = plan
			result.Method = method
			result.Violations = violations
			result.Meta = meta
		}
	}

	if result.Plan == nil {
		plan := buildDeterministicPlan(bc, base, goal)
		result.Plan = plan
		result.Method = MethodDeterministic
		result.Violations = softViolations(validatePlan(plan, base, nil, bc))
	}

	result.Plan.ID = uuid.NewString()

	if g.plans != nil {
		storedID, err := g.plans.Save(ctx, result.Plan, result.Method)
		if err != nil {
			return nil, fmt.Errorf("failed to store meal plan: %w", err)
		}
		result.StoredID = storedID
	}

	return result, nil
}

// attemptAI runs the full model pass: candidate retrieval, prompt, call,
// JSON recovery, validation and, when needed, repair. Any failure is
// returned to the caller for fallback; a structurally broken plan never
// escapes this function.
func (g *Generator) attemptAI(ctx context.Context, bc buildContext, base float64, goal Goal) (*MealPlan, string, []Violation, shared.CallMeta, error) {
	var meta shared.CallMeta
	meta.Caller = "planner"

	idx := buildCandidateIndex(bc, base)

	prompt, err := buildPlanPrompt(bc, base, goal, idx)
	if err != nil {
		return nil, "", nil, meta, err
	}

	callStart := time.Now()
	resp, err := g.textGen.GenerateContent(ctx, prompt)
	meta.Latency = time.Since(callStart)
	meta.Usage = resp.Usage
	if err != nil {
		return nil, "", nil, meta, fmt.Errorf("model call failed: %w", err)
	}

	raw, err := llm.ExtractJSON(resp.Content)
	if err != nil {
		return nil, "", nil, meta, fmt.Errorf("no usable JSON in model response: %w", err)
	}

	var plan MealPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, "", nil, meta, fmt.Errorf("model JSON does not fit the plan schema: %w", err)
	}
	normalizePlan(&plan)

	method := MethodAI
	violations := validatePlan(&plan, base, idx, bc)
	if hasStructural(violations) {
		repaired := repairPlan(&plan, idx, bc, base, goal)
		violations = validatePlan(repaired, base, idx, bc)
		if hasStructural(violations) {
			return nil, "", nil, meta, fmt.Errorf(
				"repair left %d structural violations", len(violations))
		}
		plan = *repaired
		method = MethodAIRepaired
	}

	g.finalizePlan(&plan, bc, base, goal)
	return &plan, method, softViolations(violations), meta, nil
}

// finalizePlan overwrites everything the model is not trusted with: only
// the recipe selections are the model's to make. Identity fields, dates,
// day targets and meal allocations all come from the skeleton. Called after
// structural validation, so every day type appears exactly once.
func (g *Generator) finalizePlan(p *MealPlan, bc buildContext, base float64, goal Goal) {
	if p.Title == "" {
		p.Title = fmt.Sprintf("Personalized Plan for %s", bc.profile.DisplayName())
	}
	p.UserEmail = bc.profile.Email
	p.BaseDailyCalories = base
	p.Goal = goal
	p.MacroTargets = MacroTargetsFor(goal)

	for i, dt := range DayTypeOrder {
		for di := range p.Days {
			day := &p.Days[di]
			if day.Type != dt {
				continue
			}
			day.Date = bc.start.AddDate(0, 0, i).Format("2006-01-02")
			day.TargetCalories = DayCalorieTarget(base, dt)

			allocations := MealAllocations(dt, day.TargetCalories)
			for mi := range day.Meals {
				day.Meals[mi].AllocatedCalories = allocations[day.Meals[mi].Type]
			}
			break
		}
	}
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"nutriplan/internal/config"
	"nutriplan/internal/database"
	"nutriplan/internal/llm"
	"nutriplan/internal/metrics"
	"nutriplan/internal/planner"
	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	recipeRepo   *recipe.Repository
	profileStore *user.Store
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	textGen      llm.TextGenerator
	model        string
}

// NewApp creates and initializes a new App instance. textGen may be nil for
// commands that never call a model.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	recipeRepo *recipe.Repository,
	profileStore *user.Store,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	textGen llm.TextGenerator,
	model string,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		recipeRepo:   recipeRepo,
		profileStore: profileStore,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		textGen:      textGen,
		model:        model,
	}
}

// GeneratePlan runs one full plan generation and prints the result.
func (a *App) GeneratePlan(ctx context.Context, req planner.Request) error {
	fmt.Printf("Generating meal plan for %s (%s, %.0f kcal)...\n",
		req.UserEmail, req.Goal, req.BaseDailyCalories)

	gen := planner.NewGenerator(a.recipeRepo, a.profileStore, a.planRepo, a.textGen).
		WithMinRecipesForAI(a.cfg.MinRecipesForAI)

	result, err := gen.Generate(ctx, req)
	if err != nil {
		var cfgErr *planner.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("request rejected: %w", cfgErr)
		}
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	metric := metrics.MapUsage(
		result.Method,
		a.model,
		result.Method == planner.MethodAIRepaired,
		len(result.Violations),
		result.Meta.Usage,
		result.Meta.Latency,
	)
	if err := a.metricsStore.Record(metric); err != nil {
		log.Printf("Warning: failed to record generation metrics: %v", err)
	}

	a.printPlan(ctx, result)
	return nil
}

func (a *App) printPlan(ctx context.Context, result *planner.Result) {
	plan := result.Plan

	fmt.Printf("\n=== %s ===\n", plan.Title)
	fmt.Printf("Method: %s | Stored as: %s\n", result.Method, result.StoredID)
	fmt.Printf("Goal: %s | Base: %.0f kcal | Macros: %.0f%% protein, %.0f%% carbs, %.0f%% fat\n",
		plan.Goal, plan.BaseDailyCalories,
		plan.MacroTargets.Protein*100, plan.MacroTargets.Carbs*100, plan.MacroTargets.Fat*100)

	for _, day := range plan.Days {
		fmt.Printf("\n%s (%s day, %.0f kcal)\n", day.Date, day.Type, day.TargetCalories)
		for _, meal := range day.Meals {
			fmt.Printf("  %-14s (%.0f kcal)\n", meal.Type, meal.AllocatedCalories)
			for _, part := range meal.Parts {
				fmt.Printf("    - %-12s %s\n", part.Name+":", a.recipeLabel(ctx, part))
			}
		}
	}

	for _, v := range result.Violations {
		fmt.Printf("\nNote: %s\n", v.Message)
	}
}

func (a *App) recipeLabel(ctx context.Context, part planner.MealPart) string {
	if part.SelectedRecipeID == nil {
		if part.Required {
			return "(no matching recipe)"
		}
		return "(skipped)"
	}
	rec, err := a.recipeRepo.Get(ctx, *part.SelectedRecipeID)
	if err != nil || rec == nil {
		return fmt.Sprintf("recipe #%d", *part.SelectedRecipeID)
	}
	return fmt.Sprintf("%s (%.0f kcal)", rec.Title, rec.Calories)
}

// ImportRecipes loads a JSON array of recipes into the database. Recipes
// without an id get the next free one.
func (a *App) ImportRecipes(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read recipe file %s: %w", path, err)
	}

	var recipes []recipe.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return fmt.Errorf("failed to parse recipe file %s: %w", path, err)
	}

	imported := 0
	for _, rec := range recipes {
		if rec.Title == "" {
			log.Printf("Skipping recipe without title (id %d)", rec.ID)
			continue
		}
		if rec.ID == 0 {
			rec.ID, err = a.recipeRepo.NextID(ctx)
			if err != nil {
				return err
			}
		}
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save recipe %q: %w", rec.Title, err)
		}
		imported++
	}

	fmt.Printf("Imported %d recipes from %s.\n", imported, path)
	return nil
}

// ClipRecipe extracts a recipe from a web page and stores it.
func (a *App) ClipRecipe(ctx context.Context, url string) error {
	if a.textGen == nil {
		return fmt.Errorf("clipping requires a model backend")
	}

	fmt.Printf("Clipping recipe from %s...\n", url)

	extractor := recipe.NewExtractor(a.textGen)
	rec, err := extractor.ExtractFromURL(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to extract recipe: %w", err)
	}

	rec.ID, err = a.recipeRepo.NextID(ctx)
	if err != nil {
		return err
	}
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return fmt.Errorf("failed to save clipped recipe: %w", err)
	}

	fmt.Printf("Saved recipe #%d: %s (%.0f kcal, tags: %v)\n", rec.ID, rec.Title, rec.Calories, rec.Tags)
	return nil
}

// SaveProfile creates or replaces a user profile.
func (a *App) SaveProfile(p *user.Profile) error {
	if err := a.profileStore.Save(p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	fmt.Printf("Saved profile for %s.\n", p.Email)
	return nil
}

// History prints a user's most recent plans.
func (a *App) History(ctx context.Context, email string, limit int) error {
	plans, err := a.planRepo.ListRecentByUser(ctx, email, limit)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Printf("No stored plans for %s.\n", email)
		return nil
	}

	fmt.Printf("Last %d plans for %s:\n", len(plans), email)
	for _, stored := range plans {
		fmt.Printf("  %s  %-13s  %s  %s\n",
			stored.CreatedAt.Format("2006-01-02 15:04"), stored.Method, stored.ID, stored.Plan.Title)
	}
	return nil
}

// Status prints generation totals and process health.
func (a *App) Status(days int) error {
	usage, err := a.metricsStore.GetMethodUsage(days)
	if err != nil {
		return fmt.Errorf("failed to load metrics: %w", err)
	}

	fmt.Printf("Generations in the last %d days:\n", days)
	if len(usage) == 0 {
		fmt.Println("  (none)")
	}
	for _, u := range usage {
		fmt.Printf("  %-13s %4d runs  (%d prompt / %d completion tokens)\n",
			u.Method, u.Count, u.TotalPrompt, u.TotalCompletion)
	}

	health := metrics.GetSysHealth(filepath.Dir(a.cfg.DatabasePath))
	fmt.Printf("\nMemory: %d MB in use, %d MB from OS, %d GC cycles, %d goroutines\n",
		health.AllocMB, health.SysMB, health.NumGC, health.Goroutines)
	fmt.Printf("Data on disk: %s\n", health.DataDiskSize)
	return nil
}

// MetricsCleanup removes metric records older than the given number of days.
func (a *App) MetricsCleanup(days int) error {
	if err := a.metricsStore.Cleanup(days); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Printf("Removed metric records older than %d days.\n", days)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"nutriplan/internal/app"
	"nutriplan/internal/config"
	"nutriplan/internal/database"
	"nutriplan/internal/llm"
	"nutriplan/internal/metrics"
	"nutriplan/internal/planner"
	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

const defaultModel = "llama3.1"

func main() {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	profileStore, err := user.NewStore(cfg.ProfileStorePath)
	if err != nil {
		log.Fatalf("Failed to initialize profile store: %v", err)
	}

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	switch os.Args[1] {
	case "generate":
		cmd := flag.NewFlagSet("generate", flag.ExitOnError)
		email := cmd.String("user", "", "Email of the user profile to plan for")
		calories := cmd.Float64("calories", 2000, "Base daily calories")
		goal := cmd.String("goal", "maintenance", "Goal: weight_loss, muscle_gain or maintenance")
		model := cmd.String("model", defaultModel, "Model name; gemini-* selects the Gemini backend")
		deterministic := cmd.Bool("deterministic", false, "Skip the AI pass entirely")
		cmd.Parse(os.Args[2:])

		if *email == "" {
			log.Fatal("generate requires -user")
		}

		textGen, closeFn := mustTextGenerator(ctx, cfg, *model, *deterministic)
		defer closeFn()

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, textGen, *model)
		if err := application.GeneratePlan(ctx, planner.Request{
			UserEmail:          *email,
			BaseDailyCalories:  *calories,
			Goal:               *goal,
			Model:              *model,
			ForceDeterministic: *deterministic,
		}); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}

	case "import":
		cmd := flag.NewFlagSet("import", flag.ExitOnError)
		file := cmd.String("file", "", "Path to a JSON file holding an array of recipes")
		cmd.Parse(os.Args[2:])

		if *file == "" {
			log.Fatal("import requires -file")
		}

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, nil, "")
		if err := application.ImportRecipes(ctx, *file); err != nil {
			log.Fatalf("Import failed: %v", err)
		}

	case "clip":
		cmd := flag.NewFlagSet("clip", flag.ExitOnError)
		url := cmd.String("url", "", "URL of the recipe page to clip")
		model := cmd.String("model", defaultModel, "Model name; gemini-* selects the Gemini backend")
		cmd.Parse(os.Args[2:])

		if *url == "" {
			log.Fatal("clip requires -url")
		}

		textGen, closeFn := mustTextGenerator(ctx, cfg, *model, false)
		defer closeFn()

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, textGen, *model)
		if err := application.ClipRecipe(ctx, *url); err != nil {
			log.Fatalf("Clip failed: %v", err)
		}

	case "profile":
		cmd := flag.NewFlagSet("profile", flag.ExitOnError)
		email := cmd.String("email", "", "User email")
		name := cmd.String("name", "", "Display name")
		prefs := cmd.String("preferences", "", "Comma-separated dietary preferences")
		activity := cmd.String("activity", "sedentary", "Activity level: sedentary, moderate or high")
		cmd.Parse(os.Args[2:])

		if *email == "" {
			log.Fatal("profile requires -email")
		}

		profile := &user.Profile{
			Email:         *email,
			Name:          *name,
			ActivityLevel: user.ActivityLevel(*activity),
		}
		if *prefs != "" {
			for _, p := range strings.Split(*prefs, ",") {
				profile.DietaryPreferences = append(profile.DietaryPreferences, strings.TrimSpace(p))
			}
		}

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, nil, "")
		if err := application.SaveProfile(profile); err != nil {
			log.Fatalf("Profile save failed: %v", err)
		}

	case "history":
		cmd := flag.NewFlagSet("history", flag.ExitOnError)
		email := cmd.String("user", "", "User email")
		limit := cmd.Int("limit", 10, "Number of plans to show")
		cmd.Parse(os.Args[2:])

		if *email == "" {
			log.Fatal("history requires -user")
		}

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, nil, "")
		if err := application.History(ctx, *email, *limit); err != nil {
			log.Fatalf("History failed: %v", err)
		}

	case "status":
		cmd := flag.NewFlagSet("status", flag.ExitOnError)
		days := cmd.Int("days", 30, "Aggregation window in days")
		cmd.Parse(os.Args[2:])

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, nil, "")
		if err := application.Status(*days); err != nil {
			log.Fatalf("Status failed: %v", err)
		}

	case "metrics-cleanup":
		cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cmd.Int("days", 30, "Keep records for the last N days")
		cmd.Parse(os.Args[2:])

		application := app.NewApp(cfg, db, recipeRepo, profileStore, planRepo, metricsStore, nil, "")
		if err := application.MetricsCleanup(*days); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// mustTextGenerator builds the model backend for the requested model name.
// Deterministic runs skip backend construction entirely.
func mustTextGenerator(ctx context.Context, cfg *config.Config, model string, deterministic bool) (llm.TextGenerator, func()) {
	if deterministic {
		return nil, func() {}
	}

	if strings.HasPrefix(model, "gemini") {
		client, err := llm.NewGeminiClient(ctx, cfg, model)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		closeFn := func() {}
		if closer, ok := client.(llm.Closer); ok {
			closeFn = func() { _ = closer.Close() }
		}
		return client, closeFn
	}
	return llm.NewOllamaClient(cfg, model), func() {}
}

func printUsage() {
	fmt.Println("Usage: nutriplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate and store a 3-day meal plan for a user")
	fmt.Println("  import             Load recipes from a JSON file into the database")
	fmt.Println("  clip               Extract a recipe from a web page and store it")
	fmt.Println("  profile            Create or update a user profile")
	fmt.Println("  history            Show a user's stored plans")
	fmt.Println("  status             Show generation totals and process health")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

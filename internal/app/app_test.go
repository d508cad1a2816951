package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nutriplan/internal/config"
	"nutriplan/internal/database"
	"nutriplan/internal/metrics"
	"nutriplan/internal/planner"
	"nutriplan/internal/recipe"
	"nutriplan/internal/user"
)

func newTestApp(t *testing.T) (*App, *recipe.Repository) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.NewDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	profileStore, err := user.NewStore(filepath.Join(dir, "profiles"))
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}

	cfg := &config.Config{
		DatabasePath:     filepath.Join(dir, "test.db"),
		ProfileStorePath: filepath.Join(dir, "profiles"),
		MinRecipesForAI:  10,
	}

	recipeRepo := recipe.NewRepository(db.SQL)
	application := NewApp(
		cfg,
		db,
		recipeRepo,
		profileStore,
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		nil,
		"",
	)
	return application, recipeRepo
}

func TestImportRecipes(t *testing.T) {
	application, repo := newTestApp(t)
	ctx := context.Background()

	fixture := `[
		{"id": 5, "title": "Oatmeal Bowl", "calories": 320, "protein": 12, "carbs": 55, "fat": 6, "tags": ["breakfast", "main course"]},
		{"title": "Tomato Soup", "calories": 180, "protein": 5, "carbs": 25, "fat": 7, "tags": ["soup", "vegan"]},
		{"calories": 100}
	]`
	path := filepath.Join(t.TempDir(), "recipes.json")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if err := application.ImportRecipes(ctx, path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count recipes: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 imported recipes (the untitled one skipped), got %d", count)
	}

	rec, err := repo.Get(ctx, 5)
	if err != nil || rec == nil {
		t.Fatalf("Failed to load imported recipe 5: %v", err)
	}
	if rec.Title != "Oatmeal Bowl" {
		t.Errorf("Expected title 'Oatmeal Bowl', got %q", rec.Title)
	}

	// The id-less recipe gets the next free id after the explicit one.
	soup, err := repo.Get(ctx, 6)
	if err != nil || soup == nil {
		t.Fatalf("Failed to load auto-id recipe: %v", err)
	}
	if soup.Title != "Tomato Soup" {
		t.Errorf("Expected title 'Tomato Soup', got %q", soup.Title)
	}
}

func TestImportRecipesMissingFile(t *testing.T) {
	application, _ := newTestApp(t)
	if err := application.ImportRecipes(context.Background(), "no/such/file.json"); err == nil {
		t.Fatal("Expected an error for a missing file, got nil")
	}
}

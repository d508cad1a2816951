package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	recipedb "nutriplan/internal/recipe/recipe_db"
)

// Repository is a database-backed store for recipes.
type Repository struct {
	queries *recipedb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: recipedb.New(d),
		db:      d,
	}
}

// Save inserts or updates a recipe in the database.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	recipeJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	return r.queries.InsertRecipe(ctx, recipedb.InsertRecipeParams{
		ID:        rec.ID,
		Data:      string(recipeJSON),
		UpdatedAt: time.Now().UTC(),
	})
}

// Get retrieves a recipe by its ID. A missing recipe returns (nil, nil).
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	dbRecipe, err := r.queries.GetRecipeByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(dbRecipe.Data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// List retrieves all recipes.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	dbRecipes, err := r.queries.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var recipes []Recipe
	for _, dbRec := range dbRecipes {
		var rec Recipe
		if err := json.Unmarshal([]byte(dbRec.Data), &rec); err != nil {
			log.Printf("Warning: failed to unmarshal recipe JSON for ID %d: %v", dbRec.ID, err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// QueryByTags retrieves all recipes carrying every given tag, limited to the
// given calorie range. Empty tags match everything. Recipes are stored as
// JSON documents, so filtering happens in memory after a full scan; the
// corpus is small enough that this beats maintaining a tag join table.
func (r *Repository) QueryByTags(ctx context.Context, tags []string, cr CalorieRange) ([]Recipe, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var matched []Recipe
	for _, rec := range all {
		if !rec.HasAllTags(tags) {
			continue
		}
		if !cr.Contains(rec.Calories) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

// Count returns the number of recipes in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}

// NextID returns the next free recipe id.
func (r *Repository) NextID(ctx context.Context) (int64, error) {
	maxID, err := r.queries.GetMaxRecipeID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get max recipe ID: %w", err)
	}
	if !maxID.Valid {
		return 1, nil
	}
	return maxID.Int64 + 1, nil
}

package planner

import (
	"context"
	"path/filepath"
	"testing"

	"nutriplan/internal/database"
)

func TestPlanRepository(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	repo := NewPlanRepository(db.SQL)
	ctx := context.Background()

	bc := testBuildContext(testPool(), testProfile(), 42)
	plan := buildDeterministicPlan(bc, 2000, GoalMaintenance)

	var id string
	t.Run("Save", func(t *testing.T) {
		id, err = repo.Save(ctx, plan, MethodDeterministic)
		if err != nil {
			t.Fatalf("Failed to save plan: %v", err)
		}
		if id == "" {
			t.Fatal("Expected a generated plan id")
		}
	})

	t.Run("Get", func(t *testing.T) {
		stored, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("Failed to load plan: %v", err)
		}
		if stored == nil {
			t.Fatal("Expected the stored plan, got nil")
		}
		if stored.Method != MethodDeterministic {
			t.Errorf("Expected method %q, got %q", MethodDeterministic, stored.Method)
		}
		if stored.UserEmail != plan.UserEmail {
			t.Errorf("Expected user %q, got %q", plan.UserEmail, stored.UserEmail)
		}
		if len(stored.Plan.Days) != 3 {
			t.Errorf("Expected 3 days after round-trip, got %d", len(stored.Plan.Days))
		}
	})

	t.Run("Get-NotFound", func(t *testing.T) {
		stored, err := repo.Get(ctx, "no-such-plan")
		if err != nil {
			t.Fatalf("Unexpected error for a missing plan: %v", err)
		}
		if stored != nil {
			t.Errorf("Expected nil for a missing plan, got %+v", stored)
		}
	})

	t.Run("ListRecentByUser", func(t *testing.T) {
		if _, err := repo.Save(ctx, plan, MethodAI); err != nil {
			t.Fatalf("Failed to save second plan: %v", err)
		}

		plans, err := repo.ListRecentByUser(ctx, plan.UserEmail, 10)
		if err != nil {
			t.Fatalf("Failed to list plans: %v", err)
		}
		if len(plans) != 2 {
			t.Errorf("Expected 2 stored plans, got %d", len(plans))
		}

		plans, err = repo.ListRecentByUser(ctx, "nobody@example.com", 10)
		if err != nil {
			t.Fatalf("Failed to list plans for unknown user: %v", err)
		}
		if len(plans) != 0 {
			t.Errorf("Expected no plans for an unknown user, got %d", len(plans))
		}
	})
}

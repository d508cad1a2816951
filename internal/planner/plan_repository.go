package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	plandb "nutriplan/internal/planner/plan_db"
)

// PlanRepository is a database-backed store for finished meal plans.
type PlanRepository struct {
	queries *plandb.Queries
	db      *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plandb.New(d),
		db:      d,
	}
}

// StoredPlan is one persisted plan with its generation metadata.
type StoredPlan struct {
	ID        string
	UserEmail string
	Method    string
	Plan      *MealPlan
	CreatedAt time.Time
}

// Save persists a plan and returns its id.
func (r *PlanRepository) Save(ctx context.Context, plan *MealPlan, method string) (string, error) {
	id := plan.ID
	if id == "" {
		id = uuid.NewString()
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	err = r.queries.InsertMealPlan(ctx, plandb.InsertMealPlanParams{
		ID:        id,
		UserEmail: plan.UserEmail,
		Method:    method,
		PlanData:  planJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return id, nil
}

// Get retrieves a stored plan by id. A missing plan returns (nil, nil).
func (r *PlanRepository) Get(ctx context.Context, id string) (*StoredPlan, error) {
	row, err := r.queries.GetMealPlanByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan: %w", err)
	}
	return storedPlanFromRow(row)
}

// ListRecentByUser returns a user's newest plans, most recent first.
func (r *PlanRepository) ListRecentByUser(ctx context.Context, email string, limit int) ([]StoredPlan, error) {
	rows, err := r.queries.ListRecentMealPlansByUser(ctx, plandb.ListRecentMealPlansByUserParams{
		UserEmail: email,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	var plans []StoredPlan
	for _, row := range rows {
		stored, err := storedPlanFromRow(row)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *stored)
	}
	return plans, nil
}

func storedPlanFromRow(row plandb.MealPlan) (*StoredPlan, error) {
	var plan MealPlan
	if err := json.Unmarshal(row.PlanData, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan %s: %w", row.ID, err)
	}
	return &StoredPlan{
		ID:        row.ID,
		UserEmail: row.UserEmail,
		Method:    row.Method,
		Plan:      &plan,
		CreatedAt: row.CreatedAt,
	}, nil
}
